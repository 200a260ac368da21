package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/opentalk/forum/config"
	"github.com/opentalk/forum/controllers"
	"github.com/opentalk/forum/middleware"
	"github.com/opentalk/forum/services"
	"github.com/opentalk/forum/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(utils.GinLogger())
	r.Use(utils.GinRecovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	userService := services.NewUserService(db)
	forumService := services.NewForumService(db)

	authController := controllers.NewAuthController(userService)
	categoryController := controllers.NewCategoryController(forumService)
	threadController := controllers.NewThreadController(forumService)
	postController := controllers.NewPostController(forumService)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimit())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Read-only surface is public.
	api.GET("/categories", categoryController.List)
	api.GET("/threads", threadController.List)
	api.GET("/threads/:id", threadController.Get)
	api.GET("/threads/:id/posts", postController.ListByThread)
	api.GET("/posts/:id", postController.Get)

	// Creation tolerates missing sessions: the author is then recorded as
	// "anonymous".
	open := api.Group("")
	open.Use(middleware.AuthOptional(), middleware.RateLimit())
	open.POST("/threads", threadController.Create)
	open.POST("/threads/:id/posts", postController.Create)

	// Edits and deletes need a real author to match against.
	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimit())
	protected.POST("/categories", categoryController.Create)
	protected.PUT("/threads/:id", threadController.Update)
	protected.DELETE("/threads/:id", threadController.Delete)
	protected.PUT("/posts/:id", postController.Update)
	protected.DELETE("/posts/:id", postController.Delete)

	return r
}
