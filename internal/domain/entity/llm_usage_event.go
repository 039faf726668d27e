// Package entity 定义领域实体
package entity

import "time"

// LLMUsageEvent 一次生成请求的用量流水，只记录计量数据，不保存生成内容
type LLMUsageEvent struct {
	ID               string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestID        string    `json:"request_id" gorm:"type:varchar(64);index"`
	Provider         string    `json:"provider" gorm:"type:varchar(32);not null"`
	Model            string    `json:"model" gorm:"type:varchar(64);not null"`
	Format           string    `json:"format" gorm:"type:varchar(32);index;not null"`
	PromptOnly       bool      `json:"prompt_only" gorm:"not null;default:false"`
	TokensPrompt     int       `json:"tokens_prompt" gorm:"not null;default:0"`
	TokensCompletion int       `json:"tokens_completion" gorm:"not null;default:0"`
	DurationMs       int       `json:"duration_ms" gorm:"not null;default:0"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (LLMUsageEvent) TableName() string {
	return "llm_usage_events"
}

// TotalTokens 总 token 数
func (e *LLMUsageEvent) TotalTokens() int {
	return e.TokensPrompt + e.TokensCompletion
}
