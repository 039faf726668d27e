package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"benovitz-content-api/internal/interfaces/http/dto"
)

// HealthChecker 可探活的依赖
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler 健康检查处理器
type HealthHandler struct {
	service string
	checks  map[string]HealthChecker
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(service string) *HealthHandler {
	return &HealthHandler{
		service: service,
		checks:  make(map[string]HealthChecker),
	}
}

// WithCheck 注册就绪检查依赖；checker 为 nil 时视为未启用
func (h *HealthHandler) WithCheck(name string, checker HealthChecker) *HealthHandler {
	if checker != nil {
		h.checks[name] = checker
	}
	return h
}

// Health 健康检查接口
// @Summary 健康检查
// @Tags System
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:  "healthy",
		Service: h.service,
	})
}

// Ready 就绪检查接口
// @Summary 就绪检查
// @Description 检查已启用的依赖（postgres/redis）是否可用
// @Tags System
// @Produce json
// @Success 200 {object} dto.ReadinessResponse
// @Failure 503 {object} dto.ReadinessResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := dto.ReadinessResponse{
		Status: "ok",
		Checks: make(map[string]*dto.ReadinessCheck, len(h.checks)),
	}

	for name, checker := range h.checks {
		check := &dto.ReadinessCheck{Status: "ok"}
		start := time.Now()
		err := checker.HealthCheck(ctx)
		check.LatencyMs = time.Since(start).Milliseconds()
		if err != nil {
			check.Status = "error"
			check.Error = err.Error()
			resp.Status = "not_ready"
		}
		resp.Checks[name] = check
	}

	if resp.Status != "ok" {
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Live 存活检查接口
// @Summary 存活检查
// @Tags System
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}
