package httputil

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// userIDKey is the gin context key holding the authenticated user's ID.
const userIDKey = "user_id"

// SetUserID stores the authenticated user's ID on the request context.
func SetUserID(c *gin.Context, userID uuid.UUID) {
	c.Set(userIDKey, userID)
}

// UserIDFromContext returns the authenticated user's ID set by the identity
// middleware.
func UserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}
