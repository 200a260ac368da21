package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/opentalk/forum/models"
	"github.com/opentalk/forum/utils"
)

const (
	// ContextUserIDKey is the key used to store the authenticated user ID in
	// the Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside the Gin context.
	ContextUsernameKey = "username"
	// ContextTokenKey stores the raw bearer token, needed for logout.
	ContextTokenKey = "token"
)

// AuthRequired ensures the request carries a valid, non-revoked JWT.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, ok := bearerToken(ctx)
		if !ok {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing or malformed")
			ctx.Abort()
			return
		}

		if utils.IsTokenBlacklisted(tokenString) {
			utils.Error(ctx, http.StatusUnauthorized, 40104, "token revoked")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Set(ContextTokenKey, tokenString)
		ctx.Next()
	}
}

// AuthOptional resolves the caller's identity when a valid token is present
// and lets the request through as anonymous otherwise. Thread and post
// creation accept anonymous authors; edits and deletes do not.
func AuthOptional() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if tokenString, ok := bearerToken(ctx); ok && !utils.IsTokenBlacklisted(tokenString) {
			if claims, err := utils.ParseToken(tokenString); err == nil {
				ctx.Set(ContextUserIDKey, claims.UserID)
				ctx.Set(ContextUsernameKey, claims.Username)
				ctx.Set(ContextTokenKey, tokenString)
			}
		}
		ctx.Next()
	}
}

// CallerUsername returns the authenticated username or the anonymous
// sentinel.
func CallerUsername(ctx *gin.Context) string {
	if v, exists := ctx.Get(ContextUsernameKey); exists {
		if name, ok := v.(string); ok && name != "" {
			return name
		}
	}
	return models.AnonymousAuthor
}

func bearerToken(ctx *gin.Context) (string, bool) {
	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
