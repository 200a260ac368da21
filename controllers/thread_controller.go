package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opentalk/forum/middleware"
	"github.com/opentalk/forum/services"
	"github.com/opentalk/forum/utils"
)

const threadCachePrefix = "cache:threads:"

// ThreadController manages CRUD operations for threads.
type ThreadController struct {
	forum *services.ForumService
}

// NewThreadController creates a ThreadController.
func NewThreadController(forum *services.ForumService) *ThreadController {
	return &ThreadController{forum: forum}
}

type threadRequest struct {
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content" binding:"required"`
	CategoryID uint   `json:"category_id" binding:"required"`
}

// Create starts a new thread. Works for authenticated callers and, via the
// optional-auth route, records "anonymous" when no session exists.
func (t *ThreadController) Create(ctx *gin.Context) {
	var req threadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	title := utils.Sanitize(strings.TrimSpace(req.Title))
	content := utils.Sanitize(req.Content)
	author := middleware.CallerUsername(ctx)

	thread, err := t.forum.CreateThread(title, content, req.CategoryID, author)
	if err != nil {
		respondError(ctx, err)
		return
	}

	utils.InvalidateByPrefix(threadCachePrefix)
	utils.Success(ctx, gin.H{"thread": thread})
}

// List returns all threads, optionally filtered by category_id.
func (t *ThreadController) List(ctx *gin.Context) {
	categoryParam := strings.TrimSpace(ctx.Query("category_id"))

	cacheKey := fmt.Sprintf("%slist:cat=%s", threadCachePrefix, categoryParam)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var err error
	var threads interface{}
	if categoryParam != "" {
		categoryID, ok := parseID(categoryParam)
		if !ok {
			utils.Error(ctx, http.StatusBadRequest, 40021, "invalid category id")
			return
		}
		threads, err = t.forum.ListThreadsByCategory(categoryID)
	} else {
		threads, err = t.forum.ListThreads()
	}
	if err != nil {
		respondError(ctx, err)
		return
	}

	payload := gin.H{"items": threads}
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Hour)
	utils.Success(ctx, payload)
}

// Get returns a single thread together with its posts.
func (t *ThreadController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid thread id")
		return
	}

	cacheKey := fmt.Sprintf("%sdetail:%d", threadCachePrefix, id)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	thread, err := t.forum.GetThread(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	posts, err := t.forum.ListPostsByThread(id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	payload := gin.H{"thread": thread, "posts": posts}
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Hour)
	utils.Success(ctx, payload)
}

// Update lets the author change title, content and category.
func (t *ThreadController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid thread id")
		return
	}

	var req threadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid request payload")
		return
	}

	title := utils.Sanitize(strings.TrimSpace(req.Title))
	content := utils.Sanitize(req.Content)
	caller := middleware.CallerUsername(ctx)

	thread, err := t.forum.UpdateThread(id, title, content, req.CategoryID, caller)
	if err != nil {
		respondError(ctx, err)
		return
	}

	utils.InvalidateByPrefix(threadCachePrefix)
	utils.Success(ctx, gin.H{"thread": thread})
}

// Delete removes a thread and, with it, all of its posts.
func (t *ThreadController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid thread id")
		return
	}

	caller := middleware.CallerUsername(ctx)
	if err := t.forum.DeleteThread(id, caller); err != nil {
		respondError(ctx, err)
		return
	}

	utils.InvalidateByPrefix(threadCachePrefix)
	utils.Success(ctx, gin.H{"message": "thread deleted"})
}
