package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_HTTPStatus(t *testing.T) {
	cases := []struct {
		code int
		want int
	}{
		{ErrCodePostNotFound, http.StatusNotFound},
		{ErrCodeInvalidParams, http.StatusBadRequest},
		{ErrCodeBindError, http.StatusBadRequest},
		{ErrCodeInvalidPost, http.StatusBadRequest},
		{ErrCodeInvalidID, http.StatusBadRequest},
		{ErrCodeDatabaseError, http.StatusInternalServerError},
		{ErrCodeRedisError, http.StatusInternalServerError},
		{40100, http.StatusUnauthorized},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeImportFailed, http.StatusInternalServerError},
		{0, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("code_%d", tc.code), func(t *testing.T) {
			assert.Equal(t, tc.want, New(tc.code, "x").HTTPStatus())
		})
	}
}

func TestAppError_WithCauseKeepsIdentity(t *testing.T) {
	cause := errors.New("connection refused")
	base := New(ErrCodeImportFailed, "导入失败")

	err := base.WithCause(cause)

	assert.True(t, errors.Is(err, base), "副本应匹配预定义错误")
	assert.True(t, errors.Is(err, cause), "应能解包出内部原因")
	assert.Nil(t, base.Err, "不应修改预定义错误")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestGetAppError(t *testing.T) {
	t.Run("AppError原样返回", func(t *testing.T) {
		notFound := New(ErrCodePostNotFound, "帖子不存在")
		wrapped := fmt.Errorf("repo: %w", notFound)
		assert.Same(t, notFound, GetAppError(wrapped))
	})

	t.Run("普通错误包装为内部错误", func(t *testing.T) {
		appErr := GetAppError(errors.New("boom"))
		assert.Equal(t, ErrCodeInternal, appErr.Code)
		assert.EqualError(t, appErr.Err, "boom")
		assert.Nil(t, ErrInternal.Err, "不应修改预定义错误")
	})
}

func TestIsDistinguishesCodes(t *testing.T) {
	assert.False(t, errors.Is(New(ErrCodeInvalidPost, "a"), New(ErrCodeInvalidID, "a")))
	assert.False(t, errors.Is(New(ErrCodePostNotFound, "a"), ErrInternal))
	assert.True(t, errors.Is(New(ErrCodeInternal, "另一条消息"), ErrInternal))
}

func TestWrapCode(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	err := WrapCode(cause, ErrCodeDatabaseError, "批量写入帖子失败(%d条)", 3)

	assert.Equal(t, ErrCodeDatabaseError, err.Code)
	assert.Equal(t, "批量写入帖子失败(3条)", err.Message)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
	assert.Equal(t, ErrCodeInternal, Wrap(cause, "x").Code)
}
