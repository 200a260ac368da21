package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/opentalk/forum/models"
	"github.com/opentalk/forum/stores"
	"github.com/opentalk/forum/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "unit-test-secret")
	os.Setenv("GIN_MODE", "test")
	os.Exit(m.Run())
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "api_test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Category{}, &models.Thread{}, &models.Post{}))
	require.NoError(t, stores.NewCategoryStore(db).Seed())

	return SetupRouter(db)
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp utils.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, _ := resp.Data.(map[string]interface{})
	return data
}

func registerUser(t *testing.T, r *gin.Engine, username, email, password string) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, _ := decodeData(t, w)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func createThread(t *testing.T, r *gin.Engine, token string) uint {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/v1/threads", token, gin.H{
		"title":       "First discussion",
		"content":     "Plenty of words to satisfy the minimum length.",
		"category_id": 1,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	thread, _ := decodeData(t, w)["thread"].(map[string]interface{})
	require.NotNil(t, thread)
	id, _ := thread["id"].(float64)
	require.NotZero(t, id)
	return uint(id)
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterLoginFlow(t *testing.T) {
	r := newTestRouter(t)

	t.Run("register normalizes identity", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
			"username": "  Alice  ",
			"email":    "ALICE@Example.COM",
			"password": "swordfish",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		user, _ := decodeData(t, w)["user"].(map[string]interface{})
		require.NotNil(t, user)
		assert.Equal(t, "alice", user["username"])
		assert.Equal(t, "alice@example.com", user["email"])
		assert.NotContains(t, w.Body.String(), "password_hash")
	})

	t.Run("duplicate username rejected", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
			"username": "ALICE",
			"email":    "other@example.com",
			"password": "swordfish",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
			"username": "someoneelse",
			"email":    "alice@example.com",
			"password": "swordfish",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("login with wrong password", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"username": "alice",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("login and fetch profile", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"username": "alice",
			"password": "swordfish",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		token, _ := decodeData(t, w)["token"].(string)
		require.NotEmpty(t, token)

		me := doJSON(r, http.MethodGet, "/api/v1/auth/me", token, nil)
		require.Equal(t, http.StatusOK, me.Code)
		assert.Contains(t, me.Body.String(), `"username":"alice"`)
	})

	t.Run("logout revokes the token", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"username": "alice",
			"password": "swordfish",
		})
		require.Equal(t, http.StatusOK, w.Code)
		token, _ := decodeData(t, w)["token"].(string)

		out := doJSON(r, http.MethodPost, "/api/v1/auth/logout", token, nil)
		require.Equal(t, http.StatusOK, out.Code)

		me := doJSON(r, http.MethodGet, "/api/v1/auth/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, me.Code)
	})
}

func TestCategoriesSeeded(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	for _, name := range models.SeedCategories {
		assert.Contains(t, w.Body.String(), name)
	}
}

func TestThreadLifecycle(t *testing.T) {
	r := newTestRouter(t)
	aliceToken := registerUser(t, r, "alice", "alice@example.com", "swordfish")
	bobToken := registerUser(t, r, "bob", "bob@example.com", "swordfish")

	threadID := itoa(int(createThread(t, r, aliceToken)))

	t.Run("short title rejected", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/v1/threads", aliceToken, gin.H{
			"title":       "abcd",
			"content":     "Plenty of words to satisfy the minimum length.",
			"category_id": 1,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/v1/threads", aliceToken, gin.H{
			"title":       "Valid title here",
			"content":     "Plenty of words to satisfy the minimum length.",
			"category_id": 9999,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("anonymous creation", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/v1/threads", "", gin.H{
			"title":       "A drive-by question",
			"content":     "Asked without signing in, recorded as anonymous.",
			"category_id": 2,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"author":"`+models.AnonymousAuthor+`"`)
	})

	t.Run("update requires a session", func(t *testing.T) {
		w := doJSON(r, http.MethodPut, "/api/v1/threads/"+threadID, "", gin.H{
			"title":       "Hijacked title",
			"content":     "Should never land without authentication.",
			"category_id": 1,
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("update by non-author rejected", func(t *testing.T) {
		w := doJSON(r, http.MethodPut, "/api/v1/threads/"+threadID, bobToken, gin.H{
			"title":       "Hijacked title",
			"content":     "Should never land for a different author.",
			"category_id": 1,
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("update by author succeeds", func(t *testing.T) {
		w := doJSON(r, http.MethodPut, "/api/v1/threads/"+threadID, aliceToken, gin.H{
			"title":       "Retitled discussion",
			"content":     "The author may rewrite the opening content.",
			"category_id": 2,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "Retitled discussion")
	})

	t.Run("delete cascades to posts", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/v1/threads/"+threadID+"/posts", bobToken, gin.H{
			"content": "A reply that goes down with the thread.",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		post, _ := decodeData(t, w)["post"].(map[string]interface{})
		require.NotNil(t, post)
		postID := int(post["id"].(float64))

		del := doJSON(r, http.MethodDelete, "/api/v1/threads/"+threadID, aliceToken, nil)
		require.Equal(t, http.StatusOK, del.Code, del.Body.String())

		gone := doJSON(r, http.MethodGet, "/api/v1/threads/"+threadID, "", nil)
		assert.Equal(t, http.StatusNotFound, gone.Code)

		orphan := doJSON(r, http.MethodGet, "/api/v1/posts/"+itoa(postID), "", nil)
		assert.Equal(t, http.StatusNotFound, orphan.Code)
	})

}

func TestPostLifecycle(t *testing.T) {
	r := newTestRouter(t)
	aliceToken := registerUser(t, r, "alice", "alice@example.com", "swordfish")
	bobToken := registerUser(t, r, "bob", "bob@example.com", "swordfish")
	threadID := itoa(int(createThread(t, r, aliceToken)))

	w := doJSON(r, http.MethodPost, "/api/v1/threads/"+threadID+"/posts", bobToken, gin.H{
		"content": "First reply from bob.",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	post, _ := decodeData(t, w)["post"].(map[string]interface{})
	require.NotNil(t, post)
	postID := itoa(int(post["id"].(float64)))

	t.Run("empty content rejected", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/v1/threads/"+threadID+"/posts", bobToken, gin.H{
			"content": "   ",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("reply to missing thread", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/v1/threads/9999/posts", bobToken, gin.H{
			"content": "Shouting into the void.",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("listing includes the reply", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/api/v1/threads/"+threadID+"/posts", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "First reply from bob.")
	})

	t.Run("edit by non-author rejected", func(t *testing.T) {
		w := doJSON(r, http.MethodPut, "/api/v1/posts/"+postID, aliceToken, gin.H{
			"content": "Rewritten by someone else.",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("edit by author succeeds", func(t *testing.T) {
		w := doJSON(r, http.MethodPut, "/api/v1/posts/"+postID, bobToken, gin.H{
			"content": "Edited reply from bob.",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "Edited reply from bob.")
	})

	t.Run("delete by author succeeds", func(t *testing.T) {
		w := doJSON(r, http.MethodDelete, "/api/v1/posts/"+postID, bobToken, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		gone := doJSON(r, http.MethodGet, "/api/v1/posts/"+postID, "", nil)
		assert.Equal(t, http.StatusNotFound, gone.Code)
	})
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
