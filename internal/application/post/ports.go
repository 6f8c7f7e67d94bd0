package post

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/postboard/pkg/mq"
)

// Transactor 事务执行器(由mysql.TxManager实现)
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ListCache 列表分页缓存(由redis.ListCache实现)
// 缓存内容是序列化后的ListPostsResponse
// Get返回读取时的缓存版本,回填时Set必须使用同一版本
type ListCache interface {
	Get(ctx context.Context, page, size int) (data []byte, version int64, ok bool, err error)
	Set(ctx context.Context, version int64, page, size int, data []byte) error
	Invalidate(ctx context.Context) error
}

// EventPublisher 事件发布(由mq.Publisher实现)
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// NopCache 关闭缓存时使用,永远未命中
type NopCache struct{}

func (NopCache) Get(context.Context, int, int) ([]byte, int64, bool, error) {
	return nil, 0, false, nil
}
func (NopCache) Set(context.Context, int64, int, int, []byte) error { return nil }
func (NopCache) Invalidate(context.Context) error                   { return nil }

// NopPublisher 关闭事件发布时使用
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }

// Notifier 写操作之后的通知:刷新列表缓存、发布事件
// 两者失败都只记录日志,不影响写操作本身的结果
type Notifier struct {
	cache     ListCache
	publisher EventPublisher
}

// NewNotifier 创建通知器,参数为nil时使用空实现
func NewNotifier(cache ListCache, publisher EventPublisher) *Notifier {
	if cache == nil {
		cache = NopCache{}
	}
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Notifier{cache: cache, publisher: publisher}
}

// PostsChanged 帖子数据发生变化;event为nil时只刷新缓存
func (n *Notifier) PostsChanged(ctx context.Context, event *mq.Event) {
	if err := n.cache.Invalidate(ctx); err != nil {
		zap.L().Warn("invalidate post list cache failed", zap.Error(err))
	}

	if event == nil {
		return
	}
	if err := n.publisher.Publish(ctx, event.Type, event); err != nil {
		zap.L().Warn("publish post event failed",
			zap.String("event", event.Type),
			zap.Error(err),
		)
	}
}
