package post

import (
	"context"
	"errors"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/postboard/internal/domain/post"
	"github.com/xiebiao/postboard/pkg/metrics"
	"github.com/xiebiao/postboard/pkg/tracing"
)

// DefaultBatchSize 每批INSERT的默认行数
const DefaultBatchSize = 500

// BatchInserter 批量写入(post.Repository实现了它)
type BatchInserter interface {
	CreateBatch(ctx context.Context, posts []*post.Post) error
}

// BatchWriter 把逐条产生的帖子攒成批次写入
// 1. 缓冲区满size条时执行一次多行INSERT
// 2. 数据源结束(io.EOF)后写入剩余不足一批的记录
// 3. 任何一批失败立即返回,不重试
type BatchWriter struct {
	inserter BatchInserter
	size     int
}

// NewBatchWriter 创建批量写入器,size<=0时使用DefaultBatchSize
func NewBatchWriter(inserter BatchInserter, size int) *BatchWriter {
	if size <= 0 {
		size = DefaultBatchSize
	}
	return &BatchWriter{inserter: inserter, size: size}
}

// Size 每批行数
func (w *BatchWriter) Size() int {
	return w.size
}

// Write 从next读取记录直到io.EOF,返回已写入的条数
// 出错时返回的条数是出错前已成功写入的条数(是否保留取决于外层事务)
func (w *BatchWriter) Write(ctx context.Context, next func() (*post.Post, error)) (int, error) {
	written := 0
	batch := make([]*post.Post, 0, w.size)

	for {
		p, err := next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return written, err
		}

		batch = append(batch, p)
		if len(batch) == w.size {
			if err := w.flush(ctx, batch); err != nil {
				return written, err
			}
			written += len(batch)
			batch = make([]*post.Post, 0, w.size)
		}
	}

	if len(batch) > 0 {
		if err := w.flush(ctx, batch); err != nil {
			return written, err
		}
		written += len(batch)
	}
	return written, nil
}

// flush 写入一批,记录耗时和Span
func (w *BatchWriter) flush(ctx context.Context, batch []*post.Post) error {
	ctx, span := tracing.StartSpan(ctx, tracing.TracerName, "ImportBatch")
	defer span.End()
	span.SetAttributes(attribute.Int("batch.size", len(batch)))

	start := time.Now()
	err := w.inserter.CreateBatch(ctx, batch)
	metrics.ObserveHistogram(metrics.ImportBatchDuration, time.Since(start).Seconds())

	tracing.RecordError(span, err)
	return err
}
