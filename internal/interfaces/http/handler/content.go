// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"benovitz-content-api/internal/application/content"
	"benovitz-content-api/internal/domain/voice"
	"benovitz-content-api/internal/interfaces/http/dto"
)

// ContentService 内容生成服务
type ContentService interface {
	Formats() []voice.FormatInfo
	VoiceProfile() voice.Profile
	SystemPrompt(ctx context.Context) (string, error)
	Generate(ctx context.Context, in content.GenerateInput) (*content.GenerateOutput, error)
}

// ContentHandler 内容处理器
type ContentHandler struct {
	svc ContentService
}

// NewContentHandler 创建内容处理器
func NewContentHandler(svc ContentService) *ContentHandler {
	return &ContentHandler{svc: svc}
}

// Formats 获取可用格式
// @Summary 获取可用格式
// @Tags Content
// @Produce json
// @Success 200 {object} dto.FormatListResponse
// @Router /formats [get]
func (h *ContentHandler) Formats(c *gin.Context) {
	dto.Success(c, dto.FormatListResponse{Formats: h.svc.Formats()})
}

// VoiceProfile 获取声音画像
// @Summary 获取声音画像
// @Tags Content
// @Produce json
// @Success 200 {object} voice.Profile
// @Router /voice-profile [get]
func (h *ContentHandler) VoiceProfile(c *gin.Context) {
	dto.Success(c, h.svc.VoiceProfile())
}

// SystemPrompt 获取完整系统提示词
// @Summary 获取系统提示词
// @Tags Content
// @Produce json
// @Success 200 {object} dto.SystemPromptResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /system-prompt [get]
func (h *ContentHandler) SystemPrompt(c *gin.Context) {
	prompt, err := h.svc.SystemPrompt(c.Request.Context())
	if err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.Success(c, dto.SystemPromptResponse{SystemPrompt: prompt})
}

// Generate 生成内容
// @Summary 生成内容
// @Description 按指定格式生成作者声音的内容，prompt_only 时只返回提示词
// @Tags Content
// @Accept json
// @Produce json
// @Param body body dto.GenerateRequest true "生成请求"
// @Success 200 {object} dto.GenerateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /generate [post]
func (h *ContentHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.UnprocessableEntity(c, "invalid request body: "+err.Error())
		return
	}

	out, err := h.svc.Generate(c.Request.Context(), content.GenerateInput{
		RequestID:         c.GetString("request_id"),
		Topic:             req.Topic,
		Format:            req.Format,
		AdditionalContext: req.AdditionalContext,
		PromptOnly:        req.PromptOnly,
	})
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.GenerateResponse{
		Content: out.Content,
		Format:  string(out.Format),
		Topic:   out.Topic,
	})
}
