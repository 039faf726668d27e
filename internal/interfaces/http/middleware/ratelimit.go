package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"benovitz-content-api/internal/interfaces/http/dto"
	apperrors "benovitz-content-api/pkg/errors"
	"benovitz-content-api/pkg/logger"
	"benovitz-content-api/pkg/metrics"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// Limit 窗口内允许的请求数
	Limit int
	// Window 滑动窗口大小
	Window time.Duration
	// KeyFunc 自定义限流键，为空时按调用方标识+路由构建
	KeyFunc func(c *gin.Context) string
}

// RateLimiter 限流器接口；remaining 为本次判定后窗口内剩余配额
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, remaining int, err error)
}

// RateLimit 限流中间件；limiter 为 nil 时不限流
func RateLimit(cfg RateLimitConfig, limiter RateLimiter) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	if cfg.Limit <= 0 {
		cfg.Limit = 10
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = defaultRateLimitKey
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		allowed, remaining, err := limiter.Allow(ctx, cfg.KeyFunc(c), cfg.Limit, cfg.Window)
		if err != nil {
			// 限流器故障时放行
			logger.Error(ctx, "rate limiter check failed, allowing request",
				apperrors.ErrRateLimiterFailure.WithError(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			metrics.RateLimitRejected.WithLabelValues(c.FullPath()).Inc()
			c.Header("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))
			dto.AbortWithError(c, http.StatusTooManyRequests, apperrors.ErrTooManyRequests.Message)
			return
		}

		c.Next()
	}
}

// defaultRateLimitKey 构建限流 Key：ratelimit:{client}:{route}
func defaultRateLimitKey(c *gin.Context) string {
	return "ratelimit:" + ClientID(c) + ":" + c.FullPath()
}
