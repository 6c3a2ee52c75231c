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

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

func serve(t *testing.T, h gin.HandlerFunc) Response {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestError_HidesCause(t *testing.T) {
	resp := serve(t, func(c *gin.Context) {
		Error(c, apperrors.Wrap(errors.New("dsn password=secret"), "数据库错误"))
	})
	assert.Equal(t, apperrors.ErrCodeInternal, resp.Code)
	assert.Equal(t, "数据库错误", resp.Message)
	assert.Nil(t, resp.Data)
}

func TestError_BusinessCode(t *testing.T) {
	resp := serve(t, func(c *gin.Context) { Error(c, apperrors.ErrEmailDuplicate) })
	assert.Equal(t, apperrors.ErrCodeEmailDuplicate, resp.Code)
}

func TestNewPageData(t *testing.T) {
	assert.Equal(t, 3, NewPageData(nil, 41, 1, 20).TotalPages)
	assert.Equal(t, 2, NewPageData(nil, 40, 1, 20).TotalPages)
	assert.Equal(t, 0, NewPageData(nil, 0, 1, 20).TotalPages)
	assert.Equal(t, 0, NewPageData(nil, 5, 1, 0).TotalPages)
}
