package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opentalk/forum/middleware"
	"github.com/opentalk/forum/services"
	"github.com/opentalk/forum/utils"
)

const tokenLifetime = 72 * time.Hour

// AuthController handles registration, login and session lifecycle.
type AuthController struct {
	users *services.UserService
}

// NewAuthController creates an AuthController.
func NewAuthController(users *services.UserService) *AuthController {
	return &AuthController{users: users}
}

// Register creates a local account and logs it in.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	user, err := a.users.Register(req.Username, req.Email, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.Role, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Login verifies credentials and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid request payload")
		return
	}

	user, err := a.users.Authenticate(req.Username, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.Role, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Logout revokes the presented token until its natural expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	tokenVal, exists := ctx.Get(middleware.ContextTokenKey)
	token, _ := tokenVal.(string)
	if !exists || token == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40103, "no active session")
		return
	}
	expiresAt := time.Now().Add(tokenLifetime)
	if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated principal.
func (a *AuthController) Me(ctx *gin.Context) {
	username := middleware.CallerUsername(ctx)
	user, err := a.users.FindByUsername(username)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"user": user})
}
