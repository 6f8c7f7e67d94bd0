package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/postboard/pkg/errors"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/posts/1", nil)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccess(t *testing.T) {
	c, w := newTestContext()

	Success(c, gin.H{"id": 1})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(0), body["code"])
	assert.Equal(t, "success", body["message"])
	assert.NotNil(t, body["data"])
}

func TestSuccess_NilDataOmitted(t *testing.T) {
	c, w := newTestContext()

	Success(c, nil)

	_, ok := decode(t, w)["data"]
	assert.False(t, ok, "data为空时不应输出")
}

func TestError_NotFoundMapsTo404(t *testing.T) {
	c, w := newTestContext()

	Error(c, apperrors.New(apperrors.ErrCodePostNotFound, "帖子不存在"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(apperrors.ErrCodePostNotFound), body["code"])
	assert.Equal(t, "帖子不存在", body["message"])
}

func TestError_HidesInternalCause(t *testing.T) {
	c, w := newTestContext()

	Error(c, errors.New("dial tcp 10.0.0.1:3306: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.1")
	assert.Equal(t, float64(apperrors.ErrCodeInternal), decode(t, w)["code"])
}

func TestNewPageData(t *testing.T) {
	page := NewPageData([]int{1, 2}, 21, 0, 10)
	assert.Equal(t, 3, page.TotalPages)

	empty := NewPageData([]int{}, 0, 5, 10)
	assert.Equal(t, 0, empty.TotalPages)
}
