package post

import (
	"context"
	"math"
)

// Repository 帖子仓储接口(依赖倒置原则)
// 由domain层定义接口,infrastructure层实现
type Repository interface {
	// Create 创建帖子,成功后回填ID
	Create(ctx context.Context, post *Post) error

	// CreateBatch 一条多行INSERT写入一批帖子,按切片顺序插入
	CreateBatch(ctx context.Context, posts []*Post) error

	// FindByID 根据ID查找帖子,不存在返回ErrPostNotFound
	FindByID(ctx context.Context, id uint) (*Post, error)

	// IncrementViews 原子递增浏览数(UPDATE posts SET views = views + 1)
	// 影响行数为0时返回ErrPostNotFound
	IncrementViews(ctx context.Context, id uint) error

	// Delete 删除帖子(软删除),影响行数为0时返回ErrPostNotFound
	Delete(ctx context.Context, id uint) error

	// ListByLikes 按likes降序、id升序分页查询
	ListByLikes(ctx context.Context, params ListParams) ([]*Post, int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int // 页码(从0开始)
	PageSize int // 每页数量
}

// Offset 计算偏移量
func (p ListParams) Offset() int {
	return p.Page * p.PageSize
}

// OutOfRange 页码过大导致Offset溢出时返回true
func (p ListParams) OutOfRange() bool {
	return p.PageSize > 0 && p.Page > math.MaxInt/p.PageSize
}
