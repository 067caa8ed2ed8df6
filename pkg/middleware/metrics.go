package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fixengine/pkg/collector"
)

// RequestDuration observes the handling time of every request, labelled by
// whether it succeeded.
func RequestDuration() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		success := c.Writer.Status() < 400
		collector.RequestDurationHistogram.WithLabelValues(strconv.FormatBool(success)).Observe(time.Since(start).Seconds())
	}
}
