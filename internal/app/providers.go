// Package app 放置HTTP服务和导入命令共用的组装函数
//
// cmd/api/main.go手动调用这些函数组装依赖，cmd/api/wire.go把它们声明为Wire Provider。
// 带cleanup返回值的Provider按Wire约定返回func()，调用方负责在退出时执行。
package app

import (
	"context"
	"os"

	"github.com/google/wire"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apppost "github.com/xiebiao/postboard/internal/application/post"
	"github.com/xiebiao/postboard/internal/domain/post"
	"github.com/xiebiao/postboard/internal/infrastructure/config"
	"github.com/xiebiao/postboard/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/postboard/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/postboard/internal/interface/http/handler"
	"github.com/xiebiao/postboard/pkg/logger"
	"github.com/xiebiao/postboard/pkg/metrics"
	"github.com/xiebiao/postboard/pkg/mq"
	"github.com/xiebiao/postboard/pkg/tracing"
)

// NewConfig 从默认目录加载配置
func NewConfig() (*config.Config, error) {
	return config.Load()
}

// NewLogger 按配置创建zap日志并替换全局Logger
func NewLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	log, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		return nil, nil, err
	}
	restore := zap.ReplaceGlobals(log)
	return log, func() {
		_ = log.Sync()
		restore()
	}, nil
}

// Observability 指标和链路追踪初始化结果
type Observability struct {
	shutdownTracer func(context.Context) error
}

// NewObservability 按配置初始化Prometheus指标和OpenTelemetry
// 追踪初始化失败只记录警告，服务照常启动
func NewObservability(cfg *config.Config, log *zap.Logger) (*Observability, func()) {
	if cfg.Metrics.Enabled {
		metrics.InitMetrics()
	}

	o := &Observability{}
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
		if err != nil {
			log.Warn("tracing disabled", zap.Error(err))
		} else {
			o.shutdownTracer = shutdown
		}
	}

	return o, func() {
		if o.shutdownTracer != nil {
			if err := o.shutdownTracer(context.Background()); err != nil {
				log.Warn("tracer shutdown failed", zap.Error(err))
			}
		}
	}
}

// NewDB 连接MySQL，cleanup关闭底层连接池
func NewDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	return db, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}, nil
}

// NewListCache 缓存开启时连接Redis，否则返回空实现
func NewListCache(cfg *config.Config) (apppost.ListCache, func(), error) {
	if !cfg.Cache.Enabled {
		return apppost.NopCache{}, func() {}, nil
	}

	client, err := redis.NewClient(cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	return redis.NewListCache(client, cfg.Cache.TTL), func() { _ = client.Close() }, nil
}

// NewEventPublisher MQ开启时连接RabbitMQ并包装熔断器，否则返回空实现
func NewEventPublisher(cfg *config.Config) (apppost.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return apppost.NopPublisher{}, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
	if err != nil {
		return nil, nil, err
	}
	guarded := mq.NewGuardedPublisher(publisher, cfg.MQ.BreakerThreshold, cfg.MQ.BreakerCooldown)
	return guarded, func() { _ = publisher.Close() }, nil
}

// NewImportOptions 导入配置
func NewImportOptions(cfg *config.Config) apppost.ImportOptions {
	return apppost.ImportOptions{
		BatchSize:     cfg.Import.BatchSize,
		Transactional: cfg.Import.Transactional,
	}
}

// NewImportPostsUseCase 仓储同时作为批量写入端
func NewImportPostsUseCase(
	repo post.Repository,
	txManager *mysql.TxManager,
	notifier *apppost.Notifier,
	opts apppost.ImportOptions,
) *apppost.ImportPostsUseCase {
	return apppost.NewImportPostsUseCase(repo, txManager, notifier, opts)
}

// NewImportUploadUseCase 上传文件落地到系统临时目录
func NewImportUploadUseCase(importer *apppost.ImportPostsUseCase) *apppost.ImportUploadUseCase {
	return apppost.NewImportUploadUseCase(importer, os.TempDir())
}

// NewGetPostUseCase 浏览在事务内完成
func NewGetPostUseCase(service post.Service, txManager *mysql.TxManager, notifier *apppost.Notifier) *apppost.GetPostUseCase {
	return apppost.NewGetPostUseCase(service, txManager, notifier)
}

// NewPostHandler 注入上传大小限制
func NewPostHandler(
	cfg *config.Config,
	createPostUseCase *apppost.CreatePostUseCase,
	getPostUseCase *apppost.GetPostUseCase,
	deletePostUseCase *apppost.DeletePostUseCase,
	listPostsUseCase *apppost.ListPostsUseCase,
	importPostsUseCase *apppost.ImportPostsUseCase,
	importUploadUseCase *apppost.ImportUploadUseCase,
) *handler.PostHandler {
	return handler.NewPostHandler(
		createPostUseCase,
		getPostUseCase,
		deletePostUseCase,
		listPostsUseCase,
		importPostsUseCase,
		importUploadUseCase,
		cfg.Server.MaxUploadSize,
	)
}

// InfrastructureSet 配置、日志、数据库、缓存、MQ
var InfrastructureSet = wire.NewSet(
	NewConfig,
	NewLogger,
	NewObservability,
	NewDB,
	mysql.NewTxManager,
	mysql.NewPostRepository,
	NewListCache,
	NewEventPublisher,
)

// PostSet 帖子领域服务、用例和处理器
var PostSet = wire.NewSet(
	post.NewService,
	apppost.NewNotifier,
	apppost.NewCreatePostUseCase,
	NewGetPostUseCase,
	apppost.NewDeletePostUseCase,
	apppost.NewListPostsUseCase,
	NewImportOptions,
	NewImportPostsUseCase,
	NewImportUploadUseCase,
	NewPostHandler,
)
