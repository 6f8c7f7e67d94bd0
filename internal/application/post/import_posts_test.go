package post

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/xiebiao/postboard/internal/domain/post"
	"github.com/xiebiao/postboard/internal/infrastructure/spreadsheet"
	"github.com/xiebiao/postboard/internal/testutil"
	apperrors "github.com/xiebiao/postboard/pkg/errors"
	"github.com/xiebiao/postboard/pkg/mq"
)

// writeWorkbook 生成导入文件:表头 + n行数据
func writeWorkbook(t *testing.T, header []interface{}, n int) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i := 0; i < n; i++ {
		row := []interface{}{fmt.Sprintf("title %d", i), fmt.Sprintf("content %d", i), "author"}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "posts.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

var defaultHeader = []interface{}{"title", "content", "name"}

// failingRepo 第failOn次CreateBatch返回错误,之前的批次正常写入
type failingRepo struct {
	post.Repository
	failOn int
	calls  int
}

func (r *failingRepo) CreateBatch(ctx context.Context, posts []*post.Post) error {
	r.calls++
	if r.calls == r.failOn {
		return errors.New("Duplicate entry for key 'PRIMARY'")
	}
	return r.Repository.CreateBatch(ctx, posts)
}

func TestImportPostsUseCase_Success(t *testing.T) {
	f := newFixture(t)
	path := writeWorkbook(t, defaultHeader, 7)
	uc := NewImportPostsUseCase(f.repo, f.txManager, f.notifier, ImportOptions{BatchSize: 3, Transactional: true})

	resp, err := uc.Execute(context.Background(), ImportPostsRequest{Path: path})
	require.NoError(t, err)

	assert.Equal(t, 7, resp.Imported)
	assert.Equal(t, int64(7), testutil.CountPosts(t, f.db))

	// 按文件顺序插入,views和likes为0
	list, err := NewListPostsUseCase(f.service, nil).Execute(context.Background(), ListPostsRequest{Size: 10})
	require.NoError(t, err)
	assert.Equal(t, "title 0", list.List[0].Title)
	assert.Equal(t, "title 6", list.List[6].Title)
	for _, item := range list.List {
		assert.Equal(t, 0, item.Views)
		assert.Equal(t, 0, item.Likes)
	}

	require.Equal(t, []string{mq.EventPostsImported}, f.publisher.types())
	assert.Equal(t, 7, f.publisher.events[0].Count)
	assert.Equal(t, "posts.xlsx", f.publisher.events[0].Source)
}

func TestImportPostsUseCase_HeaderOnly(t *testing.T) {
	f := newFixture(t)
	path := writeWorkbook(t, defaultHeader, 0)
	uc := NewImportPostsUseCase(f.repo, f.txManager, f.notifier, ImportOptions{Transactional: true})

	resp, err := uc.Execute(context.Background(), ImportPostsRequest{Path: path})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Imported)
	assert.Equal(t, int64(0), testutil.CountPosts(t, f.db))
}

func TestImportPostsUseCase_MissingColumn(t *testing.T) {
	f := newFixture(t)
	path := writeWorkbook(t, []interface{}{"title", "content"}, 2)
	uc := NewImportPostsUseCase(f.repo, f.txManager, f.notifier, ImportOptions{Transactional: true})

	_, err := uc.Execute(context.Background(), ImportPostsRequest{Path: path})
	require.ErrorIs(t, err, post.ErrImportFailed)
	assert.ErrorIs(t, err, spreadsheet.ErrMissingColumn)

	appErr := apperrors.GetAppError(err)
	assert.Equal(t, 500, appErr.HTTPStatus())
	assert.NotContains(t, appErr.Message, "column", "原因不暴露给客户端")
	assert.Equal(t, int64(0), testutil.CountPosts(t, f.db))
}

func TestImportPostsUseCase_MissingFile(t *testing.T) {
	f := newFixture(t)
	uc := NewImportPostsUseCase(f.repo, f.txManager, f.notifier, ImportOptions{Transactional: true})

	_, err := uc.Execute(context.Background(), ImportPostsRequest{Path: filepath.Join(t.TempDir(), "nope.xlsx")})
	assert.ErrorIs(t, err, post.ErrImportFailed)
	assert.Empty(t, f.publisher.types())
}

func TestImportPostsUseCase_TransactionalRollsBackAll(t *testing.T) {
	f := newFixture(t)
	path := writeWorkbook(t, defaultHeader, 5)
	repo := &failingRepo{Repository: f.repo, failOn: 2}
	uc := NewImportPostsUseCase(repo, f.txManager, f.notifier, ImportOptions{BatchSize: 2, Transactional: true})

	_, err := uc.Execute(context.Background(), ImportPostsRequest{Path: path})
	require.ErrorIs(t, err, post.ErrImportFailed)

	assert.Equal(t, 2, repo.calls, "失败后立即停止")
	assert.Equal(t, int64(0), testutil.CountPosts(t, f.db), "事务模式下第一批也被回滚")
}

func TestImportPostsUseCase_BestEffortKeepsCommittedBatches(t *testing.T) {
	f := newFixture(t)
	path := writeWorkbook(t, defaultHeader, 5)
	repo := &failingRepo{Repository: f.repo, failOn: 2}
	uc := NewImportPostsUseCase(repo, f.txManager, f.notifier, ImportOptions{BatchSize: 2, Transactional: false})

	_, err := uc.Execute(context.Background(), ImportPostsRequest{Path: path})
	require.ErrorIs(t, err, post.ErrImportFailed)

	assert.Equal(t, int64(2), testutil.CountPosts(t, f.db), "失败前的批次保留")
}

func TestImportPostsUseCase_CSV(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "posts.csv")
	content := "Title,Content,Name\nA,a,x\nB,b,y\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	uc := NewImportPostsUseCase(f.repo, f.txManager, f.notifier, ImportOptions{Transactional: true})

	resp, err := uc.Execute(context.Background(), ImportPostsRequest{Path: path})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Imported)
}

func TestImportUploadUseCase(t *testing.T) {
	f := newFixture(t)
	importer := NewImportPostsUseCase(f.repo, f.txManager, f.notifier, ImportOptions{Transactional: true})
	tempDir := t.TempDir()
	uc := NewImportUploadUseCase(importer, tempDir)

	src, err := os.ReadFile(writeWorkbook(t, defaultHeader, 3))
	require.NoError(t, err)

	resp, err := uc.Execute(context.Background(), ImportUploadRequest{
		Filename: "Upload.XLSX",
		Body:     strings.NewReader(string(src)),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Imported)

	// 临时文件已清理
	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestImportUploadUseCase_UnsupportedFile(t *testing.T) {
	f := newFixture(t)
	importer := NewImportPostsUseCase(f.repo, f.txManager, f.notifier, ImportOptions{})
	uc := NewImportUploadUseCase(importer, t.TempDir())

	_, err := uc.Execute(context.Background(), ImportUploadRequest{Filename: "posts.pdf", Body: strings.NewReader("x")})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidParams, apperrors.GetAppError(err).Code)
}
