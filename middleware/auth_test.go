package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opentalk/forum/models"
	"github.com/opentalk/forum/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "unit-test-secret")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newAuthRouter(required bool) *gin.Engine {
	r := gin.New()
	mw := AuthOptional()
	if required {
		mw = AuthRequired()
	}
	r.GET("/whoami", mw, func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"username": CallerUsername(ctx)})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	r := newAuthRouter(true)

	t.Run("missing header", func(t *testing.T) {
		w := doRequest(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		w := doRequest(r, "Basic abc123")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		w := doRequest(r, "Bearer not.a.token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token passes identity through", func(t *testing.T) {
		token, err := utils.GenerateToken(1, "alice", "USER", time.Hour)
		require.NoError(t, err)

		w := doRequest(r, "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"username":"alice"`)
	})

	t.Run("revoked token rejected", func(t *testing.T) {
		token, err := utils.GenerateToken(2, "bob", "USER", time.Hour)
		require.NoError(t, err)
		utils.BlacklistToken(token, time.Now().Add(time.Hour))

		w := doRequest(r, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthOptional(t *testing.T) {
	r := newAuthRouter(false)

	t.Run("no session falls back to anonymous", func(t *testing.T) {
		w := doRequest(r, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"username":"`+models.AnonymousAuthor+`"`)
	})

	t.Run("broken token treated as anonymous", func(t *testing.T) {
		w := doRequest(r, "Bearer garbage")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"username":"`+models.AnonymousAuthor+`"`)
	})

	t.Run("valid token resolves the caller", func(t *testing.T) {
		token, err := utils.GenerateToken(3, "carol", "USER", time.Hour)
		require.NoError(t, err)

		w := doRequest(r, "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"username":"carol"`)
	})
}
