package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserIDHeader carries the caller identity. It is asserted by the gateway and trusted as-is.
const UserIDHeader = "X-Sharer-User-Id"

// UserRequired is a Gin middleware that reads the caller ID from the X-Sharer-User-Id header.
func UserRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(UserIDHeader)
		if header == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "missing " + UserIDHeader + " header",
			})
			return
		}

		id, err := uuid.Parse(header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "invalid " + UserIDHeader + " header",
			})
			return
		}

		// Store user info into Gin context for later handlers.
		c.Set("userID", id.String())

		c.Next()
	}
}
