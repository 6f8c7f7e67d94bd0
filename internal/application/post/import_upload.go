package post

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/xiebiao/postboard/internal/infrastructure/spreadsheet"
	apperrors "github.com/xiebiao/postboard/pkg/errors"
)

// ImportUploadUseCase 导入上传的文件
// 上传内容先落到临时文件(保留扩展名以识别格式),然后走与路径导入相同的流程
type ImportUploadUseCase struct {
	importer *ImportPostsUseCase
	tempDir  string // 为空时使用os.TempDir()
}

// NewImportUploadUseCase 创建上传导入用例
func NewImportUploadUseCase(importer *ImportPostsUseCase, tempDir string) *ImportUploadUseCase {
	return &ImportUploadUseCase{importer: importer, tempDir: tempDir}
}

// ImportUploadRequest 上传导入请求
type ImportUploadRequest struct {
	Filename string    // 客户端文件名(只取扩展名)
	Body     io.Reader // 文件内容
}

// Execute 执行上传导入
func (uc *ImportUploadUseCase) Execute(ctx context.Context, req ImportUploadRequest) (*ImportPostsResponse, error) {
	if !spreadsheet.Supported(req.Filename) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "仅支持.xlsx、.xlsm和.csv文件")
	}

	// 1. 写入临时文件
	ext := strings.ToLower(filepath.Ext(req.Filename))
	tmp, err := os.CreateTemp(uc.tempDir, "posts-import-*"+ext)
	if err != nil {
		return nil, apperrors.Wrap(err, "创建临时文件失败")
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil {
			zap.L().Warn("remove import temp file failed", zap.String("path", tmp.Name()), zap.Error(err))
		}
	}()

	if _, err := io.Copy(tmp, req.Body); err != nil {
		tmp.Close()
		return nil, apperrors.Wrap(err, "保存上传文件失败")
	}
	if err := tmp.Close(); err != nil {
		return nil, apperrors.Wrap(err, "保存上传文件失败")
	}

	// 2. 按路径导入
	return uc.importer.Execute(ctx, ImportPostsRequest{Path: tmp.Name()})
}
