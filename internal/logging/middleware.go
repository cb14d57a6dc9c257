package logging

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
)

// Middleware attaches the logger to each request context and writes one access event per request.
func Middleware(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqLogger := logger.With().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Logger()
		c.Request = c.Request.WithContext(reqLogger.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		event := reqLogger.Info()
		if status >= 500 {
			event = reqLogger.Error()
		}
		event.
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", c.GetHeader(auth.UserIDHeader)).
			Msg("request")
	}
}
