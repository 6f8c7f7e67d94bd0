package main

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xiebiao/postboard/internal/app"
	"github.com/xiebiao/postboard/internal/infrastructure/config"
	"github.com/xiebiao/postboard/internal/interface/http/handler"
	"github.com/xiebiao/postboard/internal/interface/http/router"
)

// App HTTP服务运行所需的全部组件
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Engine *gin.Engine
}

// newApp 组装Gin引擎
// Observability只作为依赖出现，保证指标和追踪先于路由初始化
func newApp(cfg *config.Config, log *zap.Logger, _ *app.Observability, postHandler *handler.PostHandler) *App {
	return &App{
		Config: cfg,
		Logger: log,
		Engine: router.New(cfg, log, postHandler),
	}
}
