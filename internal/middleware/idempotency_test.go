package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(t *testing.T) (*gin.Engine, redismock.ClientMock, *bool) {
		t.Helper()
		rdb, mock := redismock.NewClientMock()

		handlerHit := false
		r := gin.New()
		r.POST("/leave-requests",
			func(c *gin.Context) {
				c.Set("user_id", "user-1")
				c.Next()
			},
			middleware.Idempotency(rdb),
			func(c *gin.Context) {
				handlerHit = true
				_, hasCache := c.Get("idempotency_cache_key")
				_, hasLock := c.Get("idempotency_lock_key")
				c.JSON(http.StatusCreated, gin.H{
					"has_cache_key": hasCache,
					"has_lock_key":  hasLock,
				})
			},
		)
		return r, mock, &handlerHit
	}

	t.Run("no header passes straight through", func(t *testing.T) {
		r, mock, handlerHit := newRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, *handlerHit)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("first request acquires the lock and reaches the handler", func(t *testing.T) {
		r, mock, handlerHit := newRouter(t)

		cacheKey := "idemp:/leave-requests:user-1:abc-123"
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(true)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests", nil)
		req.Header.Set("Idempotency-Key", "abc-123")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, *handlerHit)
		assert.Contains(t, w.Body.String(), `"has_cache_key":true`)
		assert.Contains(t, w.Body.String(), `"has_lock_key":true`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cached response short-circuits the handler", func(t *testing.T) {
		r, mock, handlerHit := newRouter(t)

		cacheKey := "idemp:/leave-requests:user-1:abc-123"
		mock.ExpectGet(cacheKey).SetVal(`{"id":"req-1"}`)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests", nil)
		req.Header.Set("Idempotency-Key", "abc-123")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, *handlerHit)
		assert.Contains(t, w.Body.String(), "req-1")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("in-flight duplicate gets conflict", func(t *testing.T) {
		r, mock, handlerHit := newRouter(t)

		cacheKey := "idemp:/leave-requests:user-1:abc-123"
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(false)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests", nil)
		req.Header.Set("Idempotency-Key", "abc-123")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.False(t, *handlerHit)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
