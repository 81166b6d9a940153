package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-leave/internal/middleware"
	"go-leave/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestContextLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(capture *string) *gin.Engine {
		r := gin.New()
		// Same call shape BuildApp uses: the global logger is the fallback.
		r.Use(middleware.ContextLogger(zap.L()))
		r.GET("/ping", func(c *gin.Context) {
			*capture = contextutil.GetRequestID(c.Request.Context())
			c.Status(http.StatusOK)
		})
		return r
	}

	t.Run("propagates the incoming request id into the context", func(t *testing.T) {
		var captured string
		r := newRouter(&captured)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Request-ID", "rid-123")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "rid-123", captured)
		assert.Equal(t, "rid-123", w.Header().Get("X-Request-ID"))
	})

	t.Run("generates a request id when the header is absent", func(t *testing.T) {
		var captured string
		r := newRouter(&captured)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, captured)
		assert.Equal(t, captured, w.Header().Get("X-Request-ID"))
	})
}
