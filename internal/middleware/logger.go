package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/autolog/logagent/internal/logger"
)

// CustomLoggerMiddleware logs each HTTP request in simple text format
func CustomLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)

		subject := "-"
		if s, exists := c.Get(SubjectKey); exists {
			if str, ok := s.(string); ok && str != "" {
				subject = str
			}
		}

		logger.GetLogger().Infof("[API] %s | %s | %d | %s | %s | Subject: %s",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			latency.String(),
			c.ClientIP(),
			subject,
		)
	}
}
