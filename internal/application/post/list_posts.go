package post

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/xiebiao/postboard/internal/domain/post"
	apperrors "github.com/xiebiao/postboard/pkg/errors"
	"github.com/xiebiao/postboard/pkg/metrics"
)

const (
	// DefaultPageSize 默认每页数量
	DefaultPageSize = 10
	// MaxPageSize 每页最大数量
	MaxPageSize = 100
)

// ListPostsUseCase 按点赞数分页查询用例
// 设计说明:
// 1. 列表不返回content字段(减少数据传输量)
// 2. 分页结果缓存在Redis,写操作递增缓存版本号
// 3. 缓存故障时直接查询数据库
type ListPostsUseCase struct {
	postService post.Service
	cache       ListCache
}

// NewListPostsUseCase 创建列表用例,cache为nil时不使用缓存
func NewListPostsUseCase(postService post.Service, cache ListCache) *ListPostsUseCase {
	if cache == nil {
		cache = NopCache{}
	}
	return &ListPostsUseCase{
		postService: postService,
		cache:       cache,
	}
}

// ListPostsRequest 列表查询请求DTO
type ListPostsRequest struct {
	Page int // 页码(从0开始)
	Size int // 每页数量
}

// ListPostsResponse 列表查询响应DTO
// 总页数由response.NewPageData统一计算
type ListPostsResponse struct {
	List     []PostListItem `json:"list"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// Execute 执行列表查询
// 1. 参数默认值与范围限制(size默认10,最大100;page不能为负)
// 2. 先查缓存,未命中再查数据库并回填
func (uc *ListPostsUseCase) Execute(ctx context.Context, req ListPostsRequest) (*ListPostsResponse, error) {
	if req.Page < 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "页码不能为负数")
	}
	if req.Size < 1 {
		req.Size = DefaultPageSize
	}
	if req.Size > MaxPageSize {
		req.Size = MaxPageSize
	}

	resp, version, cacheable := uc.fromCache(ctx, req)
	if resp != nil {
		return resp, nil
	}

	posts, total, err := uc.postService.ListPosts(ctx, post.ListParams{
		Page:     req.Page,
		PageSize: req.Size,
	})
	if err != nil {
		return nil, err
	}

	list := make([]PostListItem, len(posts))
	for i, p := range posts {
		list[i] = PostListItem{
			ID:    p.ID,
			Title: p.Title,
			Name:  p.Name,
			Likes: p.Likes,
			Views: p.Views,
		}
	}

	resp = &ListPostsResponse{
		List:     list,
		Total:    total,
		Page:     req.Page,
		PageSize: req.Size,
	}
	if cacheable {
		uc.toCache(ctx, version, req, resp)
	}
	return resp, nil
}

// fromCache 读取缓存,任何错误都按未命中处理
// 返回读取时的缓存版本;缓存读取出错时cacheable=false,不再回填
func (uc *ListPostsUseCase) fromCache(ctx context.Context, req ListPostsRequest) (resp *ListPostsResponse, version int64, cacheable bool) {
	data, version, ok, err := uc.cache.Get(ctx, req.Page, req.Size)
	if err != nil {
		metrics.IncCounterVec(metrics.ListCacheRequests, map[string]string{"result": "error"})
		zap.L().Warn("read post list cache failed", zap.Error(err))
		return nil, 0, false
	}
	if !ok {
		metrics.IncCounterVec(metrics.ListCacheRequests, map[string]string{"result": "miss"})
		return nil, version, true
	}

	var cached ListPostsResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		zap.L().Warn("decode post list cache failed", zap.Error(err))
		return nil, version, true
	}
	metrics.IncCounterVec(metrics.ListCacheRequests, map[string]string{"result": "hit"})
	return &cached, version, true
}

func (uc *ListPostsUseCase) toCache(ctx context.Context, version int64, req ListPostsRequest, resp *ListPostsResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, version, req.Page, req.Size, data); err != nil {
		zap.L().Warn("write post list cache failed", zap.Error(err))
	}
}
