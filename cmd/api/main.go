// Postboard 帖子服务
//
// @title           Postboard API
// @version         1.0
// @description     帖子增删查、按点赞排行分页、表格批量导入
// @host            localhost:8080
// @BasePath        /
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/xiebiao/postboard/docs"
	"github.com/xiebiao/postboard/internal/app"
	apppost "github.com/xiebiao/postboard/internal/application/post"
	"github.com/xiebiao/postboard/internal/domain/post"
	"github.com/xiebiao/postboard/internal/infrastructure/persistence/mysql"
)

const shutdownTimeout = 10 * time.Second

func main() {
	application, cleanup, err := initializeApp()
	if err != nil {
		log.Fatalf("启动失败: %v", err)
	}
	defer cleanup()

	if err := run(application); err != nil {
		application.Logger.Error("server stopped", zap.Error(err))
	}
}

// initializeApp 手动依赖注入，与wire.go中的InitializeApp保持一致
// Repository ← Service ← UseCase ← Handler
func initializeApp() (*App, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	fail := func(err error) (*App, func(), error) {
		cleanup()
		return nil, nil, err
	}

	// 1. 配置与日志
	cfg, err := app.NewConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, loggerCleanup, err := app.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanups = append(cleanups, loggerCleanup)

	obs, obsCleanup := app.NewObservability(cfg, logger)
	cleanups = append(cleanups, obsCleanup)

	// 2. 基础设施
	db, dbCleanup, err := app.NewDB(cfg)
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, dbCleanup)
	cache, cacheCleanup, err := app.NewListCache(cfg)
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, cacheCleanup)
	publisher, publisherCleanup, err := app.NewEventPublisher(cfg)
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, publisherCleanup)

	repo := mysql.NewPostRepository(db)
	txManager := mysql.NewTxManager(db)

	// 3. 领域层与应用层
	service := post.NewService(repo)
	notifier := apppost.NewNotifier(cache, publisher)
	importer := app.NewImportPostsUseCase(repo, txManager, notifier, app.NewImportOptions(cfg))

	postHandler := app.NewPostHandler(cfg,
		apppost.NewCreatePostUseCase(service, notifier),
		app.NewGetPostUseCase(service, txManager, notifier),
		apppost.NewDeletePostUseCase(service, notifier),
		apppost.NewListPostsUseCase(service, cache),
		importer,
		app.NewImportUploadUseCase(importer),
	)

	return newApp(cfg, logger, obs, postHandler), cleanup, nil
}

// run 启动HTTP服务，收到SIGINT/SIGTERM后优雅关闭
func run(a *App) error {
	srv := &http.Server{
		Addr:         a.Config.Server.Addr(),
		Handler:      a.Engine,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server started",
			zap.String("addr", srv.Addr),
			zap.String("mode", a.Config.Server.Mode),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
