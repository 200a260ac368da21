package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/opentalk/forum/apperrors"
	"github.com/opentalk/forum/utils"
)

// respondError maps the domain error taxonomy onto HTTP statuses and
// business codes. Everything outside the taxonomy is an unexpected storage
// failure: logged, answered with a generic 500, never retried.
func respondError(ctx *gin.Context, err error) {
	switch {
	case apperrors.IsValidation(err):
		utils.Error(ctx, http.StatusBadRequest, 40010, err.Error())
	case apperrors.IsNotFound(err):
		utils.Error(ctx, http.StatusNotFound, 40401, err.Error())
	case errors.Is(err, apperrors.ErrUnauthorized):
		utils.Error(ctx, http.StatusForbidden, 40301, err.Error())
	case errors.Is(err, apperrors.ErrDuplicateUsername):
		utils.Error(ctx, http.StatusConflict, 40901, err.Error())
	case errors.Is(err, apperrors.ErrDuplicateEmail):
		utils.Error(ctx, http.StatusConflict, 40902, err.Error())
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		utils.Error(ctx, http.StatusUnauthorized, 40106, err.Error())
	default:
		if utils.Sugar != nil {
			utils.Sugar.Errorf("unexpected error handling %s %s: %v", ctx.Request.Method, ctx.Request.URL.Path, err)
		}
		utils.Error(ctx, http.StatusInternalServerError, 50001, "unexpected server error")
	}
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
