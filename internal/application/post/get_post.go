package post

import (
	"context"

	"github.com/xiebiao/postboard/internal/domain/post"
	"github.com/xiebiao/postboard/pkg/metrics"
)

// GetPostUseCase 帖子详情用例(每次调用浏览数+1)
type GetPostUseCase struct {
	postService post.Service
	txManager   Transactor
	notifier    *Notifier
}

// NewGetPostUseCase 创建详情用例
func NewGetPostUseCase(postService post.Service, txManager Transactor, notifier *Notifier) *GetPostUseCase {
	return &GetPostUseCase{
		postService: postService,
		txManager:   txManager,
		notifier:    notifier,
	}
}

// Execute 执行详情用例
// 递增和读取放在同一事务内,返回的views就是本次调用产生的值
func (uc *GetPostUseCase) Execute(ctx context.Context, id uint) (*PostResponse, error) {
	var p *post.Post
	err := uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		var err error
		p, err = uc.postService.ViewPost(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.IncCounter(metrics.PostViewsTotal)
	// 列表项包含views,浏览后缓存的分页已过期
	uc.notifier.PostsChanged(ctx, nil)

	return toPostResponse(p), nil
}
