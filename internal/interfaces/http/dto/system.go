package dto

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
}

// ReadinessCheck 单项依赖检查结果
type ReadinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

// ReadinessResponse 就绪检查响应
type ReadinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*ReadinessCheck `json:"checks,omitempty"`
}

// ServiceInfoResponse 根路径服务信息
type ServiceInfoResponse struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Endpoints   map[string]string `json:"endpoints"`
}
