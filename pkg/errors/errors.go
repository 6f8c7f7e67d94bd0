package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型，HTTP状态码由Code所在区间推导
// 2. Message是用户友好的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端（防止泄露敏感信息）
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 用户友好的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，使Wrap出来的副本也能匹配预定义错误
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// HTTPStatus 由业务错误码推导HTTP状态码
// 规则：
// - 404xx → 404 Not Found
// - 409xx → 400 Bad Request（参数错误）
// - 其余4xxxx → 前三位（40100 → 401）
// - 5xxxx → 500
func (e *AppError) HTTPStatus() int {
	switch {
	case e.Code >= 50000:
		return http.StatusInternalServerError
	case e.Code >= 40900 && e.Code < 41000:
		return http.StatusBadRequest
	case e.Code >= 40000 && e.Code < 50000:
		status := e.Code / 100
		if http.StatusText(status) == "" {
			return http.StatusBadRequest
		}
		return status
	default:
		return http.StatusInternalServerError
	}
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// WrapCode 按指定错误码包装底层错误
// 用法：apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "查询帖子失败: id=%d", id)
func WrapCode(err error, code int, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// WithCause 复制预定义错误并附加内部原因
// 用法：return post.ErrImportFailed.WithCause(err)
func (e *AppError) WithCause(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、资源不存在）
// - 5xxxx: 服务端错误（数据库异常、导入失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误
	ErrCodeImportFailed  = 50010 // 批量导入失败

	// 资源错误（40400-40499）
	ErrCodePostNotFound = 40401 // 帖子不存在

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900 // 参数错误(分页、上传文件类型)
	ErrCodeBindError     = 40901 // 参数绑定失败
	ErrCodeInvalidPost   = 40902 // 帖子字段不合法
	ErrCodeInvalidID     = 40903 // 帖子ID不合法
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// ErrInternal 非AppError的兜底错误
	ErrInternal = New(ErrCodeInternal, "系统内部错误")
)

// =========================================
// 辅助函数
// =========================================

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal.WithCause(err)
}
