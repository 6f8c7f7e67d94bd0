package post

import (
	"context"
	"time"

	"github.com/xiebiao/postboard/internal/domain/post"
	"github.com/xiebiao/postboard/pkg/metrics"
	"github.com/xiebiao/postboard/pkg/mq"
)

// DeletePostUseCase 删除帖子用例
type DeletePostUseCase struct {
	postService post.Service
	notifier    *Notifier
}

// NewDeletePostUseCase 创建删除用例
func NewDeletePostUseCase(postService post.Service, notifier *Notifier) *DeletePostUseCase {
	return &DeletePostUseCase{
		postService: postService,
		notifier:    notifier,
	}
}

// Execute 执行删除,帖子不存在时返回ErrPostNotFound
func (uc *DeletePostUseCase) Execute(ctx context.Context, id uint) error {
	if err := uc.postService.DeletePost(ctx, id); err != nil {
		return err
	}

	metrics.IncCounter(metrics.PostsDeletedTotal)
	uc.notifier.PostsChanged(ctx, &mq.Event{
		Type:       mq.EventPostDeleted,
		PostID:     id,
		OccurredAt: time.Now(),
	})
	return nil
}
