package dto

import (
	"benovitz-content-api/internal/domain/voice"
)

// GenerateRequest 内容生成请求
type GenerateRequest struct {
	Topic             string `json:"topic" binding:"required"`
	Format            string `json:"format"`
	AdditionalContext string `json:"additional_context"`
	PromptOnly        bool   `json:"prompt_only"`
}

// GenerateResponse 内容生成响应
type GenerateResponse struct {
	Content string `json:"content"`
	Format  string `json:"format"`
	Topic   string `json:"topic"`
}

// FormatListResponse 格式列表响应
type FormatListResponse struct {
	Formats []voice.FormatInfo `json:"formats"`
}

// SystemPromptResponse 系统提示词响应
type SystemPromptResponse struct {
	SystemPrompt string `json:"system_prompt"`
}
