// Package router 提供 HTTP 路由配置
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"benovitz-content-api/internal/config"
	"benovitz-content-api/internal/infrastructure/persistence/redis"
	"benovitz-content-api/internal/interfaces/http/dto"
	"benovitz-content-api/internal/interfaces/http/handler"
	"benovitz-content-api/internal/interfaces/http/middleware"
)

// Handlers 路由依赖的处理器集合
type Handlers struct {
	Info    *handler.InfoHandler
	Health  *handler.HealthHandler
	Content *handler.ContentHandler
}

// Router HTTP 路由器
type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	handlers Handlers
	limiter  middleware.RateLimiter
}

// New 创建新的路由器；limiter 为 nil 时 /generate 不限流
func New(cfg *config.Config, handlers Handlers, limiter middleware.RateLimiter) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:   gin.New(),
		cfg:      cfg,
		handlers: handlers,
		limiter:  limiter,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.CORS(r.cfg.Security.CORS))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}

	skip := append([]string{}, middleware.DefaultSkipPaths...)
	if p := r.cfg.Observability.Metrics.Path; p != "" {
		skip = append(skip, p)
	}
	r.engine.Use(middleware.Auth(middleware.AuthConfig{
		APIKeys:   r.cfg.Security.APIKeys,
		SkipPaths: skip,
	}))
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	r.engine.NoRoute(func(c *gin.Context) {
		dto.NotFound(c, "Not Found")
	})

	// 系统端点
	r.engine.GET("/", r.handlers.Info.Root)
	r.engine.GET("/health", r.handlers.Health.Health)
	r.engine.GET("/ready", r.handlers.Health.Ready)
	r.engine.GET("/live", r.handlers.Health.Live)

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// 内容端点
	r.engine.GET("/formats", r.handlers.Content.Formats)
	r.engine.GET("/voice-profile", r.handlers.Content.VoiceProfile)
	r.engine.GET("/system-prompt", r.handlers.Content.SystemPrompt)

	var limiter middleware.RateLimiter
	if r.cfg.Security.RateLimit.Enabled {
		limiter = r.limiter
	}
	r.engine.POST("/generate",
		middleware.RateLimit(middleware.RateLimitConfig{
			Limit:  r.cfg.Security.RateLimit.Limit,
			Window: r.cfg.Security.RateLimit.Window,
			KeyFunc: func(c *gin.Context) string {
				return redis.BuildRateLimitKey(middleware.ClientID(c), c.FullPath())
			},
		}, limiter),
		r.handlers.Content.Generate,
	)
}

// Handler 返回 http.Handler
func (r *Router) Handler() http.Handler {
	return r.engine
}
