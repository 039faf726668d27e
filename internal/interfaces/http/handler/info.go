package handler

import (
	"github.com/gin-gonic/gin"

	"benovitz-content-api/internal/interfaces/http/dto"
)

// InfoHandler 服务信息处理器
type InfoHandler struct {
	info dto.ServiceInfoResponse
}

// NewInfoHandler 创建服务信息处理器
func NewInfoHandler(version string) *InfoHandler {
	return &InfoHandler{info: dto.ServiceInfoResponse{
		Name:        "Rabbi Moshe Benovitz Content Generator API",
		Version:     version,
		Description: "Generate content in the voice of Rabbi Moshe Benovitz",
		Endpoints: map[string]string{
			"/generate":      "POST - Generate content",
			"/formats":       "GET - List available formats",
			"/voice-profile": "GET - Get voice profile details",
			"/system-prompt": "GET - Get the full system prompt",
			"/health":        "GET - Health check",
		},
	}}
}

// Root 返回服务信息
func (h *InfoHandler) Root(c *gin.Context) {
	dto.Success(c, h.info)
}
