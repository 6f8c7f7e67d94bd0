package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/postboard/internal/domain/post"
	apperrors "github.com/xiebiao/postboard/pkg/errors"
)

// listColumns 列表查询不读取content
var listColumns = []string{"id", "title", "name", "views", "likes", "created_at", "updated_at"}

// postRepository 帖子仓储实现(MySQL)
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository 创建帖子仓储
func NewPostRepository(db *gorm.DB) post.Repository {
	return &postRepository{db: db}
}

// Create 创建帖子
func (r *postRepository) Create(ctx context.Context, p *post.Post) error {
	// 1. 领域实体 → GORM模型
	model := toPostModel(p)

	// 2. 插入数据库
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "创建帖子失败")
	}

	// 3. 回填自增ID
	p.ID = model.ID
	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt
	return nil
}

// CreateBatch 批量创建帖子
// GORM对切片生成一条 INSERT INTO posts (...) VALUES (...),(...) 语句
func (r *postRepository) CreateBatch(ctx context.Context, posts []*post.Post) error {
	if len(posts) == 0 {
		return nil
	}

	models := make([]*PostModel, len(posts))
	for i, p := range posts {
		models[i] = toPostModel(p)
	}

	if err := r.getDB(ctx).Create(&models).Error; err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "批量写入帖子失败(%d条)", len(posts))
	}

	for i, m := range models {
		posts[i].ID = m.ID
		posts[i].CreatedAt = m.CreatedAt
		posts[i].UpdatedAt = m.UpdatedAt
	}
	return nil
}

// FindByID 根据ID查找帖子
func (r *postRepository) FindByID(ctx context.Context, id uint) (*post.Post, error) {
	var model PostModel
	err := r.getDB(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, post.ErrPostNotFound
		}
		return nil, apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "查询帖子失败")
	}
	return toPostEntity(&model), nil
}

// IncrementViews 原子递增浏览数
// UPDATE posts SET views = views + 1 WHERE id = ? AND deleted_at IS NULL
// 并发请求不会丢失更新,也不需要先查后改
func (r *postRepository) IncrementViews(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Model(&PostModel{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))

	if result.Error != nil {
		return apperrors.WrapCode(result.Error, apperrors.ErrCodeDatabaseError, "更新浏览数失败")
	}
	if result.RowsAffected == 0 {
		return post.ErrPostNotFound
	}
	return nil
}

// Delete 删除帖子(软删除)
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&PostModel{}, id)

	if result.Error != nil {
		return apperrors.WrapCode(result.Error, apperrors.ErrCodeDatabaseError, "删除帖子失败")
	}
	if result.RowsAffected == 0 {
		return post.ErrPostNotFound
	}
	return nil
}

// ListByLikes 按点赞数分页查询
// ORDER BY likes DESC, id ASC:点赞数相同时按ID排序,保证分页结果稳定
func (r *postRepository) ListByLikes(ctx context.Context, params post.ListParams) ([]*post.Post, int64, error) {
	var models []PostModel
	var total int64

	// 1. 查询总数
	if err := r.getDB(ctx).Model(&PostModel{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "查询帖子总数失败")
	}

	// 2. 偏移量溢出或超过总数时直接返回空列表
	if params.OutOfRange() || int64(params.Offset()) >= total {
		return []*post.Post{}, total, nil
	}

	// 3. 查询当前页
	err := r.getDB(ctx).Model(&PostModel{}).
		Select(listColumns).
		Order("likes DESC").
		Order("id ASC").
		Limit(params.PageSize).
		Offset(params.Offset()).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "查询帖子列表失败")
	}

	posts := make([]*post.Post, len(models))
	for i := range models {
		posts[i] = toPostEntity(&models[i])
	}
	return posts, total, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toPostModel 领域实体 → GORM模型
func toPostModel(p *post.Post) *PostModel {
	return &PostModel{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Name:      p.Name,
		Views:     p.Views,
		Likes:     p.Likes,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// toPostEntity GORM模型 → 领域实体
func toPostEntity(model *PostModel) *post.Post {
	return &post.Post{
		ID:        model.ID,
		Title:     model.Title,
		Content:   model.Content,
		Name:      model.Name,
		Views:     model.Views,
		Likes:     model.Likes,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// getDB 从context获取事务DB
func (r *postRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}
