// Package llm 提供 LLM ChatModel 工厂与适配器
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"benovitz-content-api/internal/config"
	apperrors "benovitz-content-api/pkg/errors"
)

const (
	ProviderTypeOpenAI = "openai"
	ProviderTypeGemini = "gemini"
	ProviderTypeClaude = "claude"
)

// claudeDefaultMaxTokens Anthropic 接口要求显式给出 max_tokens
const claudeDefaultMaxTokens = 2000

type buildFunc func(ctx context.Context, name string, cfg config.ProviderConfig) (model.BaseChatModel, error)

// EinoFactory 管理多个 Eino ChatModel 客户端实例
type EinoFactory struct {
	config *config.LLMConfig
	models map[string]model.BaseChatModel
	mu     sync.RWMutex
	build  buildFunc
}

// NewEinoFactory 创建 Eino LLM 工厂
func NewEinoFactory(cfg *config.Config) *EinoFactory {
	return &EinoFactory{
		config: &cfg.LLM,
		models: make(map[string]model.BaseChatModel),
		build:  buildChatModel,
	}
}

// Resolve 解析提供商名称与配置，空名称使用默认提供商
func (f *EinoFactory) Resolve(name string) (string, config.ProviderConfig, error) {
	if strings.TrimSpace(name) == "" {
		name = f.config.DefaultProvider
	}
	providerCfg, ok := f.config.Providers[name]
	if !ok {
		return name, config.ProviderConfig{}, apperrors.ErrProviderNotConfig.WithDetail(
			fmt.Sprintf("LLM provider '%s' not configured on server", name),
		)
	}
	return name, providerCfg, nil
}

// Get 获取指定名称的 ChatModel，如果未指定则返回默认客户端
func (f *EinoFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	name, providerCfg, err := f.Resolve(name)
	if err != nil {
		return nil, err
	}

	f.mu.RLock()
	m, ok := f.models[name]
	f.mu.RUnlock()
	if ok {
		return m, nil
	}

	// 未配置密钥时不缓存，便于热更新后重试
	if strings.TrimSpace(providerCfg.APIKey) == "" {
		return nil, apperrors.ErrProviderNotConfig.WithDetail(
			fmt.Sprintf("API key for LLM provider '%s' not configured on server", name),
		)
	}

	// 惰性加载
	f.mu.Lock()
	defer f.mu.Unlock()

	// 再次检查防止竞态
	if m, ok = f.models[name]; ok {
		return m, nil
	}

	chatModel, err := f.build(ctx, name, providerCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model for %s: %w", name, err)
	}

	f.models[name] = chatModel
	return chatModel, nil
}

// Describe 返回提供商名称与模型名，用于指标和用量流水
func (f *EinoFactory) Describe(name string) (string, string) {
	name, cfg, err := f.Resolve(name)
	if err != nil {
		return name, ""
	}
	return name, cfg.Model
}

// ProviderType 推断提供商适配器类型
func ProviderType(name string, cfg config.ProviderConfig) string {
	t := strings.ToLower(strings.TrimSpace(cfg.Type))
	if t == "" {
		t = strings.ToLower(strings.TrimSpace(name))
	}
	switch t {
	case ProviderTypeGemini:
		return ProviderTypeGemini
	case ProviderTypeClaude, "anthropic":
		return ProviderTypeClaude
	}
	return ProviderTypeOpenAI
}

func buildChatModel(ctx context.Context, name string, cfg config.ProviderConfig) (model.BaseChatModel, error) {
	switch ProviderType(name, cfg) {
	case ProviderTypeGemini:
		return NewGeminiChatModel(ctx, GeminiConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: float32(cfg.Temperature),
			Timeout:     cfg.Timeout,
		})
	case ProviderTypeClaude:
		return claude.NewChatModel(ctx, claudeConfig(cfg))
	default:
		// 使用 Eino 的 OpenAI 适配器（兼容 OpenAI 协议的服务通过 base_url 接入）
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			MaxTokens:   ptr(cfg.MaxTokens),
			Temperature: ptr(float32(cfg.Temperature)),
			Timeout:     cfg.Timeout,
		})
	}
}

func claudeConfig(cfg config.ProviderConfig) *claude.Config {
	cc := &claude.Config{
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: ptr(float32(cfg.Temperature)),
		HTTPClient:  &http.Client{Timeout: cfg.Timeout},
	}
	if cc.MaxTokens <= 0 {
		cc.MaxTokens = claudeDefaultMaxTokens
	}
	if cfg.BaseURL != "" {
		cc.BaseURL = ptr(cfg.BaseURL)
	}
	return cc
}

func ptr[T any](v T) *T {
	return &v
}
