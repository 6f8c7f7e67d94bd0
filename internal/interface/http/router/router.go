// Package router 组装Gin引擎：中间件、健康检查、指标、Swagger和帖子路由
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/postboard/internal/infrastructure/config"
	"github.com/xiebiao/postboard/internal/interface/http/handler"
	"github.com/xiebiao/postboard/internal/interface/http/middleware"
)

// New 创建Gin引擎并注册全部路由
func New(cfg *config.Config, log *zap.Logger, postHandler *handler.PostHandler) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode:
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing())
	}
	r.Use(middleware.Logger(log))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	posts := r.Group("/api/posts")
	{
		posts.POST("", postHandler.CreatePost)
		posts.POST("/add", postHandler.CreatePost)
		posts.POST("/excel", postHandler.ImportPosts)
		posts.POST("/excel/upload", postHandler.UploadPosts)
		posts.GET("/list", postHandler.ListPosts)
		posts.GET("/:id", postHandler.GetPost)
		posts.DELETE("/:id", postHandler.DeletePost)
	}

	return r
}
