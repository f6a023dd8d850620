package middleware

import (
	"strconv"
	"time"

	"NexusFlow/internal/pkg"

	"github.com/gin-gonic/gin"
)

// Metrics 按路由模板统计，未匹配的路由归为 unmatched
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		pkg.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		pkg.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
