package post

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/postboard/internal/domain/post"
	apperrors "github.com/xiebiao/postboard/pkg/errors"
	"github.com/xiebiao/postboard/pkg/mq"
)

func TestCreatePostUseCase(t *testing.T) {
	f := newFixture(t)
	uc := NewCreatePostUseCase(f.service, f.notifier)

	resp, err := uc.Execute(context.Background(), CreatePostRequest{Title: "Hello", Content: "World", Name: "alice"})
	require.NoError(t, err)

	assert.NotZero(t, resp.ID)
	assert.Equal(t, "Hello", resp.Title)
	assert.Equal(t, 0, resp.Views)
	assert.Equal(t, 0, resp.Likes)
	assert.Equal(t, []string{mq.EventPostCreated}, f.publisher.types())
}

func TestCreatePostUseCase_Invalid(t *testing.T) {
	f := newFixture(t)
	uc := NewCreatePostUseCase(f.service, f.notifier)

	_, err := uc.Execute(context.Background(), CreatePostRequest{Title: "Hello"})
	assert.ErrorIs(t, err, post.ErrInvalidPost)
	assert.Empty(t, f.publisher.types(), "失败时不发布事件")
}

func TestGetPostUseCase_ViewsIncrementPerCall(t *testing.T) {
	f := newFixture(t)
	id := f.seed(t, "a", 0)
	uc := NewGetPostUseCase(f.service, f.txManager, f.notifier)

	const n = 5
	for i := 1; i <= n; i++ {
		resp, err := uc.Execute(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, i, resp.Views)
		assert.Equal(t, "content of a", resp.Content)
	}
}

func TestGetPostUseCase_NotFound(t *testing.T) {
	f := newFixture(t)
	uc := NewGetPostUseCase(f.service, f.txManager, f.notifier)

	_, err := uc.Execute(context.Background(), 42)
	require.ErrorIs(t, err, post.ErrPostNotFound)
	assert.Equal(t, 404, apperrors.GetAppError(err).HTTPStatus())
}

func TestDeletePostUseCase(t *testing.T) {
	f := newFixture(t)
	id := f.seed(t, "a", 0)
	del := NewDeletePostUseCase(f.service, f.notifier)
	get := NewGetPostUseCase(f.service, f.txManager, f.notifier)

	require.NoError(t, del.Execute(context.Background(), id))

	_, err := get.Execute(context.Background(), id)
	assert.ErrorIs(t, err, post.ErrPostNotFound)

	// 再次删除返回NotFound
	assert.ErrorIs(t, del.Execute(context.Background(), id), post.ErrPostNotFound)
	assert.Equal(t, []string{mq.EventPostDeleted}, f.publisher.types())
}

func TestListPostsUseCase_OrderAndPaging(t *testing.T) {
	f := newFixture(t)
	a := f.seed(t, "a", 3)
	b := f.seed(t, "b", 10)
	c := f.seed(t, "c", 3)
	uc := NewListPostsUseCase(f.service, f.cache)

	resp, err := uc.Execute(context.Background(), ListPostsRequest{Page: 0, Size: 2})
	require.NoError(t, err)

	assert.Equal(t, int64(3), resp.Total)
	assert.Equal(t, 2, resp.PageSize)
	require.Len(t, resp.List, 2)
	assert.Equal(t, b, resp.List[0].ID)
	assert.Equal(t, a, resp.List[1].ID, "likes相同时按id升序")

	resp, err = uc.Execute(context.Background(), ListPostsRequest{Page: 1, Size: 2})
	require.NoError(t, err)
	require.Len(t, resp.List, 1)
	assert.Equal(t, c, resp.List[0].ID)

	resp, err = uc.Execute(context.Background(), ListPostsRequest{Page: 5, Size: 2})
	require.NoError(t, err)
	assert.Empty(t, resp.List)
	assert.Equal(t, int64(3), resp.Total)
}

func TestListPostsUseCase_Defaults(t *testing.T) {
	f := newFixture(t)
	uc := NewListPostsUseCase(f.service, nil)

	resp, err := uc.Execute(context.Background(), ListPostsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Page)
	assert.Equal(t, DefaultPageSize, resp.PageSize)
	assert.NotNil(t, resp.List)

	resp, err = uc.Execute(context.Background(), ListPostsRequest{Size: 1000})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, resp.PageSize)

	_, err = uc.Execute(context.Background(), ListPostsRequest{Page: -1})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidParams, apperrors.GetAppError(err).Code)
}

func TestListPostsUseCase_HugePageIsEmpty(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a", 1)
	uc := NewListPostsUseCase(f.service, f.cache)

	// page*size超出int范围时不能绕回到第一页
	resp, err := uc.Execute(context.Background(), ListPostsRequest{Page: 1 << 62, Size: 4})
	require.NoError(t, err)
	assert.Empty(t, resp.List)
	assert.Equal(t, int64(1), resp.Total)
}

// writeDuringList 查库之后、回填缓存之前插入一次写操作
type writeDuringList struct {
	post.Service
	write func()
}

func (s *writeDuringList) ListPosts(ctx context.Context, params post.ListParams) ([]*post.Post, int64, error) {
	posts, total, err := s.Service.ListPosts(ctx, params)
	if s.write != nil {
		write := s.write
		s.write = nil
		write()
	}
	return posts, total, err
}

func TestListPostsUseCase_WriteBetweenReadAndRefill(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a", 1)
	ctx := context.Background()

	create := NewCreatePostUseCase(f.service, f.notifier)
	svc := &writeDuringList{Service: f.service}
	svc.write = func() {
		_, err := create.Execute(ctx, CreatePostRequest{Title: "b", Content: "c", Name: "n"})
		require.NoError(t, err)
	}
	list := NewListPostsUseCase(svc, f.cache)

	first, err := list.Execute(ctx, ListPostsRequest{Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Total, "本次请求返回写入前读到的数据")

	second, err := list.Execute(ctx, ListPostsRequest{Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Total, "旧数据不能写入新版本缓存")
}

func TestListPostsUseCase_CacheNeverStaleAfterWrite(t *testing.T) {
	f := newFixture(t)
	id := f.seed(t, "a", 1)
	list := NewListPostsUseCase(f.service, f.cache)
	get := NewGetPostUseCase(f.service, f.txManager, f.notifier)
	create := NewCreatePostUseCase(f.service, f.notifier)
	del := NewDeletePostUseCase(f.service, f.notifier)
	ctx := context.Background()

	first, err := list.Execute(ctx, ListPostsRequest{Size: 10})
	require.NoError(t, err)
	require.Len(t, first.List, 1)
	assert.Equal(t, 0, first.List[0].Views)

	// 浏览后列表中的views必须更新
	_, err = get.Execute(ctx, id)
	require.NoError(t, err)
	afterView, err := list.Execute(ctx, ListPostsRequest{Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, afterView.List[0].Views)

	// 创建后总数必须更新
	_, err = create.Execute(ctx, CreatePostRequest{Title: "b", Content: "c", Name: "n"})
	require.NoError(t, err)
	afterCreate, err := list.Execute(ctx, ListPostsRequest{Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), afterCreate.Total)

	// 删除后不再出现
	require.NoError(t, del.Execute(ctx, id))
	afterDelete, err := list.Execute(ctx, ListPostsRequest{Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), afterDelete.Total)
	for _, item := range afterDelete.List {
		assert.NotEqual(t, id, item.ID)
	}
}

func TestListPostsUseCase_ServesFromCache(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a", 1)
	list := NewListPostsUseCase(f.service, f.cache)
	ctx := context.Background()

	_, err := list.Execute(ctx, ListPostsRequest{Size: 10})
	require.NoError(t, err)

	// 绕过用例直接写库:缓存版本未变,返回缓存结果
	f.seed(t, "b", 2)
	cached, err := list.Execute(ctx, ListPostsRequest{Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), cached.Total)
}

func TestListPostsUseCase_RedisDownFallsThrough(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a", 1)
	f.redis.Close()

	resp, err := NewListPostsUseCase(f.service, f.cache).Execute(context.Background(), ListPostsRequest{Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)

	// 写操作在缓存故障时也必须成功
	_, err = NewCreatePostUseCase(f.service, f.notifier).Execute(context.Background(),
		CreatePostRequest{Title: "t", Content: "c", Name: "n"})
	assert.NoError(t, err)
}
