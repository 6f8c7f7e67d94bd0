package post

import (
	"context"
)

// Service 帖子领域服务接口
type Service interface {
	// CreatePost 创建帖子
	// 业务规则:标题、内容、作者都不能为空
	CreatePost(ctx context.Context, title, content, name string) (*Post, error)

	// ViewPost 浏览帖子:先原子递增views,再读取最新记录
	// 调用方需要把两步放在同一事务内,返回的views才是本次调用产生的值
	ViewPost(ctx context.Context, id uint) (*Post, error)

	// DeletePost 删除帖子
	DeletePost(ctx context.Context, id uint) error

	// ListPosts 按点赞数分页查询
	ListPosts(ctx context.Context, params ListParams) ([]*Post, int64, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建帖子领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreatePost 创建帖子
func (s *service) CreatePost(ctx context.Context, title, content, name string) (*Post, error) {
	p := NewPost(title, content, name)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ViewPost 浏览帖子
func (s *service) ViewPost(ctx context.Context, id uint) (*Post, error) {
	if id == 0 {
		return nil, ErrInvalidID
	}

	// 1. 原子递增(不存在时返回ErrPostNotFound,不会先查后改)
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		return nil, err
	}

	// 2. 读取递增后的记录
	return s.repo.FindByID(ctx, id)
}

// DeletePost 删除帖子
func (s *service) DeletePost(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrInvalidID
	}
	return s.repo.Delete(ctx, id)
}

// ListPosts 分页查询
func (s *service) ListPosts(ctx context.Context, params ListParams) ([]*Post, int64, error) {
	return s.repo.ListByLikes(ctx, params)
}
