package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/opentalk/forum/middleware"
	"github.com/opentalk/forum/services"
	"github.com/opentalk/forum/utils"
)

// PostController manages CRUD operations for replies.
type PostController struct {
	forum *services.ForumService
}

// NewPostController creates a PostController.
func NewPostController(forum *services.ForumService) *PostController {
	return &PostController{forum: forum}
}

// Create adds a reply to a thread. Anonymous authors are allowed on the
// optional-auth route, same as thread creation.
func (p *PostController) Create(ctx *gin.Context) {
	threadID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid thread id")
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "invalid request payload")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	author := middleware.CallerUsername(ctx)

	post, err := p.forum.CreatePost(threadID, content, author)
	if err != nil {
		respondError(ctx, err)
		return
	}

	utils.CacheDelete(fmt.Sprintf("%sdetail:%d", threadCachePrefix, threadID))
	utils.Success(ctx, gin.H{"post": post})
}

// ListByThread returns a thread's posts in creation order.
func (p *PostController) ListByThread(ctx *gin.Context) {
	threadID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid thread id")
		return
	}

	// Resolve the thread first so a missing parent answers 404, not an
	// empty list.
	if _, err := p.forum.GetThread(threadID); err != nil {
		respondError(ctx, err)
		return
	}

	posts, err := p.forum.ListPostsByThread(threadID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": posts})
}

// Get returns a single post.
func (p *PostController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid post id")
		return
	}

	post, err := p.forum.GetPost(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"post": post})
}

// Update lets the author change a post's content.
func (p *PostController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid post id")
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40043, "invalid request payload")
		return
	}

	caller := middleware.CallerUsername(ctx)
	post, err := p.forum.UpdatePost(id, utils.Sanitize(strings.TrimSpace(req.Content)), caller)
	if err != nil {
		respondError(ctx, err)
		return
	}

	utils.CacheDelete(fmt.Sprintf("%sdetail:%d", threadCachePrefix, post.ThreadID))
	utils.Success(ctx, gin.H{"post": post})
}

// Delete removes a post.
func (p *PostController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid post id")
		return
	}

	caller := middleware.CallerUsername(ctx)
	post, err := p.forum.GetPost(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if err := p.forum.DeletePost(id, caller); err != nil {
		respondError(ctx, err)
		return
	}

	utils.CacheDelete(fmt.Sprintf("%sdetail:%d", threadCachePrefix, post.ThreadID))
	utils.Success(ctx, gin.H{"message": "post deleted"})
}
