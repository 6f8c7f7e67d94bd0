package post

import (
	apperrors "github.com/xiebiao/postboard/pkg/errors"
)

// 帖子领域错误定义
var (
	// ErrPostNotFound 帖子不存在(或已删除)
	ErrPostNotFound = apperrors.New(apperrors.ErrCodePostNotFound, "帖子不存在")

	// ErrInvalidPost 标题、内容、作者不能为空
	ErrInvalidPost = apperrors.New(apperrors.ErrCodeInvalidPost, "标题、内容和作者不能为空")

	// ErrInvalidID 无效的帖子ID
	ErrInvalidID = apperrors.New(apperrors.ErrCodeInvalidID, "无效的帖子ID")

	// ErrImportFailed 批量导入失败(具体原因只写日志)
	ErrImportFailed = apperrors.New(apperrors.ErrCodeImportFailed, "帖子导入失败")
)
