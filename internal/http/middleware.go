package http

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hearthledger/hearthledger/internal/httputil"
)

// UserIDHeader carries the acting household member's ID on every API request.
// Authentication happens upstream; this server only needs to know who acts.
const UserIDHeader = "X-User-ID"

// CustomLoggerMiddleware logs HTTP requests with the request ID.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("http request",
			slog.String("request_id", requestid.Get(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

// UserIdentityMiddleware reads the user ID header and stores it in the
// request context. Requests without a valid ID continue; handlers that need
// an identity reject them individually.
func UserIdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader(UserIDHeader); raw != "" {
			if userID, err := uuid.Parse(raw); err == nil {
				httputil.SetUserID(c, userID)
			}
		}
		c.Next()
	}
}
