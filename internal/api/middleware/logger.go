package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bobler41/EV-Parking-Simulation/internal/logger"
)

// Logger writes one access log line per request.
func Logger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			path += "?" + q
		}
		elapsed := time.Since(start).Round(time.Microsecond)
		switch {
		case status >= 500:
			log.Errorf("http: %s %s %d %s", c.Request.Method, path, status, elapsed)
		case status >= 400:
			log.Warnf("http: %s %s %d %s", c.Request.Method, path, status, elapsed)
		default:
			log.Infof("http: %s %s %d %s", c.Request.Method, path, status, elapsed)
		}
	}
}
