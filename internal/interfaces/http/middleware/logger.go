package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"loan-origination.backend/pkg/logger"
)

// LoggerMiddleware logs HTTP requests using the structured logger.
// Probe endpoints listed in skipPaths are not logged.
func LoggerMiddleware(skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if _, ok := skip[path]; ok {
			return
		}
		if raw != "" {
			path = path + "?" + raw
		}

		// request_id is already on c.Request.Context() via RequestIDMiddleware
		logger.LogRequest(c.Request.Context(), c.Request.Method, path, c.Writer.Status(), time.Since(start), c.ClientIP())
	}
}
