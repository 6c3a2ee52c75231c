package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/xiebiao/storefront/internal/infrastructure/config"
)

func corsRouter(cfg config.CORSConfig) *gin.Engine {
	r := gin.New()
	r.Use(CORS(cfg))
	r.GET("/cart", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCORS(t *testing.T) {
	r := corsRouter(config.CORSConfig{
		Enabled:          true,
		AllowOrigins:     []string{"http://shop.local"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Authorization", CartSessionHeader},
		ExposeHeaders:    []string{CartSessionHeader},
		AllowCredentials: true,
		MaxAge:           600,
	})

	t.Run("allowed origin", func(t *testing.T) {
		w := get(r, "/cart", "", "Origin", "http://shop.local")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://shop.local", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, CartSessionHeader, w.Header().Get("Access-Control-Expose-Headers"))
		assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("rejected origin", func(t *testing.T) {
		w := get(r, "/cart", "", "Origin", "http://evil.local")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("same origin request", func(t *testing.T) {
		w := get(r, "/cart", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/cart", nil)
		req.Header.Set("Origin", "http://shop.local")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestCORS_Disabled(t *testing.T) {
	r := corsRouter(config.CORSConfig{Enabled: false})
	w := get(r, "/cart", "", "Origin", "http://any.local")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
