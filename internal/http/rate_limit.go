package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/hearthledger/hearthledger/internal/httputil"
)

// unlockLimiterStore holds per-user rate limiters with automatic cleanup.
type unlockLimiterStore struct {
	limiters sync.Map // map[uuid.UUID]*unlockLimiterEntry
	rps      float64
	burst    int
}

// unlockLimiterEntry holds a rate limiter and last access time for cleanup.
type unlockLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

// UnlockRateLimitMiddleware throttles unlock attempts per user.
//
// Unlock is the only endpoint that accepts a password, so it is the only
// password-guessing surface. Each user gets an independent token bucket via
// golang.org/x/time/rate; one household member hammering the endpoint does
// not lock out the others.
//
// Returns:
//   - 429 Too Many Requests: rate limit exceeded (includes Retry-After header)
//   - Continues: request allowed within rate limit
func UnlockRateLimitMiddleware(rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := &unlockLimiterStore{
		rps:   rps,
		burst: burst,
	}

	// Cleanup goroutine for stale limiters (every 5 minutes)
	go store.cleanupStale(context.Background(), 5*time.Minute)

	return func(c *gin.Context) {
		userID, ok := httputil.UserIDFromContext(c)
		if !ok {
			httputil.HandleBadRequestGin(c, errors.New("missing user identity"), logger)
			c.Abort()
			return
		}

		limiter := store.getLimiter(userID)

		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := int(reservation.Delay().Seconds())
			reservation.Cancel()

			logger.Debug("unlock rate limit exceeded",
				slog.String("user_id", userID.String()),
				slog.Int("retry_after", retryAfter))

			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": "Too many unlock attempts. Please retry after the specified delay.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// getLimiter retrieves or creates a rate limiter for a user. LoadOrStore
// keeps concurrent first requests on a single bucket.
func (s *unlockLimiterStore) getLimiter(userID uuid.UUID) *rate.Limiter {
	val, loaded := s.limiters.Load(userID)
	if !loaded {
		val, _ = s.limiters.LoadOrStore(userID, &unlockLimiterEntry{
			limiter:    rate.NewLimiter(rate.Limit(s.rps), s.burst),
			lastAccess: time.Now(),
		})
	}

	entry := val.(*unlockLimiterEntry)
	entry.mu.Lock()
	entry.lastAccess = time.Now()
	entry.mu.Unlock()
	return entry.limiter
}

// cleanupStale removes rate limiters that haven't been accessed recently.
func (s *unlockLimiterStore) cleanupStale(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			threshold := time.Now().Add(-1 * time.Hour)
			s.limiters.Range(func(key, value interface{}) bool {
				entry := value.(*unlockLimiterEntry)
				entry.mu.Lock()
				shouldDelete := entry.lastAccess.Before(threshold)
				entry.mu.Unlock()

				if shouldDelete {
					s.limiters.Delete(key)
				}
				return true
			})
		}
	}
}
