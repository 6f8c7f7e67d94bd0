package post

import (
	"context"
	"time"

	"github.com/xiebiao/postboard/internal/domain/post"
	"github.com/xiebiao/postboard/pkg/metrics"
	"github.com/xiebiao/postboard/pkg/mq"
)

// CreatePostUseCase 创建帖子用例
type CreatePostUseCase struct {
	postService post.Service
	notifier    *Notifier
}

// NewCreatePostUseCase 创建用例
func NewCreatePostUseCase(postService post.Service, notifier *Notifier) *CreatePostUseCase {
	return &CreatePostUseCase{
		postService: postService,
		notifier:    notifier,
	}
}

// CreatePostRequest 创建请求DTO
type CreatePostRequest struct {
	Title   string
	Content string
	Name    string
}

// Execute 执行创建用例
// 1. 领域服务校验必填字段并持久化(views、likes从0开始)
// 2. 刷新列表缓存,发布post.created事件
func (uc *CreatePostUseCase) Execute(ctx context.Context, req CreatePostRequest) (*PostResponse, error) {
	p, err := uc.postService.CreatePost(ctx, req.Title, req.Content, req.Name)
	if err != nil {
		return nil, err
	}

	metrics.IncCounter(metrics.PostsCreatedTotal)
	uc.notifier.PostsChanged(ctx, &mq.Event{
		Type:       mq.EventPostCreated,
		PostID:     p.ID,
		OccurredAt: time.Now(),
	})

	return toPostResponse(p), nil
}
