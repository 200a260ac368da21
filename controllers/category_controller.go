package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opentalk/forum/services"
	"github.com/opentalk/forum/utils"
)

const categoriesCacheKey = "cache:categories:list"

// CategoryController serves the category listing that populates selection
// UIs, and ad hoc category creation.
type CategoryController struct {
	forum *services.ForumService
}

// NewCategoryController creates a CategoryController.
func NewCategoryController(forum *services.ForumService) *CategoryController {
	return &CategoryController{forum: forum}
}

// List returns all categories in insertion order.
func (c *CategoryController) List(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(categoriesCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	categories, err := c.forum.Categories()
	if err != nil {
		respondError(ctx, err)
		return
	}

	payload := gin.H{"items": categories}
	utils.CacheSetJSON(categoriesCacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Hour)
	utils.Success(ctx, payload)
}

// Create adds a category.
func (c *CategoryController) Create(ctx *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	category, err := c.forum.CreateCategory(utils.Sanitize(strings.TrimSpace(req.Name)))
	if err != nil {
		respondError(ctx, err)
		return
	}

	utils.CacheDelete(categoriesCacheKey)
	utils.Success(ctx, gin.H{"category": category})
}
