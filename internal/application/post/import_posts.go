package post

import (
	"context"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/postboard/internal/domain/post"
	"github.com/xiebiao/postboard/internal/infrastructure/spreadsheet"
	"github.com/xiebiao/postboard/pkg/metrics"
	"github.com/xiebiao/postboard/pkg/mq"
	"github.com/xiebiao/postboard/pkg/tracing"
)

// ImportOptions 导入选项(来自import配置)
type ImportOptions struct {
	BatchSize int
	// Transactional 为true时整个导入在一个事务内:任何失败都回滚所有批次
	// 为false时已提交的批次在失败后保留
	Transactional bool
}

// ImportPostsUseCase 从表格文件批量导入帖子
//
// 流程:读取文件(spreadsheet) → 行转帖子(post.FromRow) → 批量写入(BatchWriter),
// 一次同步完成。任何失败都记录完整日志,对外只返回ErrImportFailed。
type ImportPostsUseCase struct {
	repo      BatchInserter
	txManager Transactor
	notifier  *Notifier
	opts      ImportOptions
}

// NewImportPostsUseCase 创建导入用例
func NewImportPostsUseCase(repo BatchInserter, txManager Transactor, notifier *Notifier, opts ImportOptions) *ImportPostsUseCase {
	return &ImportPostsUseCase{
		repo:      repo,
		txManager: txManager,
		notifier:  notifier,
		opts:      opts,
	}
}

// ImportPostsRequest 导入请求DTO
type ImportPostsRequest struct {
	Path string // 服务端可访问的文件路径
}

// ImportPostsResponse 导入结果
type ImportPostsResponse struct {
	Imported int `json:"imported"`
}

// Execute 执行导入
func (uc *ImportPostsUseCase) Execute(ctx context.Context, req ImportPostsRequest) (*ImportPostsResponse, error) {
	start := time.Now()
	metrics.IncGauge(metrics.ImportsInProgress)
	defer metrics.DecGauge(metrics.ImportsInProgress)

	ctx, span := tracing.StartSpan(ctx, tracing.TracerName, "ImportPosts")
	defer span.End()
	span.SetAttributes(
		attribute.String("import.path", req.Path),
		attribute.Bool("import.transactional", uc.opts.Transactional),
	)

	writer := NewBatchWriter(uc.repo, uc.opts.BatchSize)
	written := 0

	run := func(ctx context.Context) error {
		// 1. 打开文件并校验表头
		reader, err := spreadsheet.Open(req.Path, post.RequiredColumns...)
		if err != nil {
			return err
		}
		defer reader.Close()

		// 2. 逐行转换并分批写入
		written, err = writer.Write(ctx, func() (*post.Post, error) {
			row, err := reader.Next()
			if err != nil {
				return nil, err
			}
			return post.FromRow(row), nil
		})
		return err
	}

	var err error
	if uc.opts.Transactional {
		err = uc.txManager.Transaction(ctx, run)
	} else {
		err = run(ctx)
	}

	if err != nil {
		committed := written
		if uc.opts.Transactional {
			committed = 0
		}
		zap.L().Error("post import failed",
			zap.String("path", req.Path),
			zap.Int("written_before_failure", written),
			zap.Int("committed", committed),
			zap.Bool("transactional", uc.opts.Transactional),
			zap.String("trace_id", tracing.ExtractTraceID(ctx)),
			zap.Error(err),
		)
		tracing.RecordError(span, err)
		metrics.IncCounterVec(metrics.ImportsTotal, map[string]string{"result": "failure"})
		if committed > 0 {
			uc.notifier.PostsChanged(ctx, nil)
		}
		return nil, post.ErrImportFailed.WithCause(err)
	}

	elapsed := time.Since(start)
	metrics.IncCounterVec(metrics.ImportsTotal, map[string]string{"result": "success"})
	metrics.AddCounter(metrics.ImportedRowsTotal, float64(written))
	metrics.ObserveHistogram(metrics.ImportDuration, elapsed.Seconds())
	span.SetAttributes(attribute.Int("import.rows", written))

	zap.L().Info("post import finished",
		zap.String("path", req.Path),
		zap.Int("rows", written),
		zap.Int("batch_size", writer.Size()),
		zap.Duration("elapsed", elapsed),
	)

	uc.notifier.PostsChanged(ctx, &mq.Event{
		Type:       mq.EventPostsImported,
		Count:      written,
		Source:     filepath.Base(req.Path),
		OccurredAt: time.Now(),
	})

	return &ImportPostsResponse{Imported: written}, nil
}
