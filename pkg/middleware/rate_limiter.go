package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"fixengine/pkg/logs"
	"fixengine/pkg/model"
)

// Middleware is the middleware for gin.
type Middleware struct {
	Limiter *limiter.Limiter
}

// NewLimiter keeps its counters in process memory.
func NewLimiter(period time.Duration, limit int64) *limiter.Limiter {
	return limiter.New(memory.NewStore(), limiter.Rate{
		Period: period,
		Limit:  limit,
	})
}

// RateLimiter limits requests per client IP.
func RateLimiter(limiter *limiter.Limiter) gin.HandlerFunc {
	middleware := &Middleware{
		Limiter: limiter,
	}

	return func(ctx *gin.Context) {
		middleware.Handle(ctx)
	}
}

// Handle gin request.
func (middleware *Middleware) Handle(c *gin.Context) {
	key := c.ClientIP()
	context, err := middleware.Limiter.Get(c, key)
	if err != nil {
		logs.Log.Error().Err(err).Str("key", key).Msg("rate limiter unavailable")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Header("X-RateLimit-Limit", strconv.FormatInt(context.Limit, 10))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(context.Remaining, 10))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(context.Reset, 10))

	if context.Reached {
		middleware.HandleLimitReached(c)
		return
	}

	c.Next()
}

func (middleware *Middleware) HandleLimitReached(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, &model.Response{
		Error:   true,
		Message: "Too Many Requests",
	})
}
