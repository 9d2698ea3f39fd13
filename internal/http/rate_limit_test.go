package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func setupRateLimitedRouter(rps float64, burst int) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.Use(UserIdentityMiddleware())
	router.Use(UnlockRateLimitMiddleware(rps, burst, logger))
	router.POST("/unlock", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	return router
}

func TestUnlockRateLimitMiddleware(t *testing.T) {
	t.Run("AllowsWithinBurst", func(t *testing.T) {
		router := setupRateLimitedRouter(1.0, 3)
		userID := uuid.Must(uuid.NewV7())

		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/unlock", nil)
			req.Header.Set(UserIDHeader, userID.String())
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusNoContent, w.Code)
		}
	})

	t.Run("BlocksOverBurst", func(t *testing.T) {
		router := setupRateLimitedRouter(0.001, 2)
		userID := uuid.Must(uuid.NewV7())

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/unlock", nil)
			req.Header.Set(UserIDHeader, userID.String())
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusNoContent, w.Code)
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/unlock", nil)
		req.Header.Set(UserIDHeader, userID.String())
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
	})

	t.Run("LimitsPerUser", func(t *testing.T) {
		router := setupRateLimitedRouter(0.001, 1)

		firstUser := uuid.Must(uuid.NewV7())
		secondUser := uuid.Must(uuid.NewV7())

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/unlock", nil)
		req.Header.Set(UserIDHeader, firstUser.String())
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)

		// First user exhausted their bucket
		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/unlock", nil)
		req.Header.Set(UserIDHeader, firstUser.String())
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)

		// Second user has an independent bucket
		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/unlock", nil)
		req.Header.Set(UserIDHeader, secondUser.String())
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("ConcurrentFirstRequestsShareOneBucket", func(t *testing.T) {
		store := &unlockLimiterStore{rps: 1.0, burst: 3}
		userID := uuid.Must(uuid.NewV7())

		const workers = 16
		limiters := make([]*rate.Limiter, workers)

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				limiters[i] = store.getLimiter(userID)
			}()
		}
		wg.Wait()

		for i := 1; i < workers; i++ {
			assert.Same(t, limiters[0], limiters[i])
		}
	})

	t.Run("RejectsMissingIdentity", func(t *testing.T) {
		router := setupRateLimitedRouter(1.0, 5)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/unlock", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
