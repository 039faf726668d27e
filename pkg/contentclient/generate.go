package contentclient

import (
	"context"
	"net/http"
	"slices"
)

// 服务端点
const (
	EndpointGenerate     = "/generate"
	EndpointFormats      = "/formats"
	EndpointVoiceProfile = "/voice-profile"
	EndpointSystemPrompt = "/system-prompt"
	EndpointHealth       = "/health"
)

// Generate 生成内容，未设置格式时使用 article
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	var out GenerateResponse
	if err := c.Request(ctx, http.MethodPost, EndpointGenerate, req.withDefaults(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) generateContent(ctx context.Context, format Format, topic, additionalContext string) (string, error) {
	resp, err := c.Generate(ctx, GenerateRequest{
		Topic:             topic,
		Format:            format,
		AdditionalContext: additionalContext,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// GenerateArticle 生成文章
func (c *Client) GenerateArticle(ctx context.Context, topic, additionalContext string) (string, error) {
	return c.generateContent(ctx, FormatArticle, topic, additionalContext)
}

// GenerateSocialPost 生成社交媒体帖子
func (c *Client) GenerateSocialPost(ctx context.Context, topic, additionalContext string) (string, error) {
	return c.generateContent(ctx, FormatSocialMedia, topic, additionalContext)
}

// GenerateShiurOutline 生成 shiur 讲课大纲
func (c *Client) GenerateShiurOutline(ctx context.Context, topic, additionalContext string) (string, error) {
	return c.generateContent(ctx, FormatShiurOutline, topic, additionalContext)
}

// GenerateReflection 生成简短感悟
func (c *Client) GenerateReflection(ctx context.Context, topic, additionalContext string) (string, error) {
	return c.generateContent(ctx, FormatShortReflection, topic, additionalContext)
}

// GenerateAdvisorTraining 生成导师培训材料
func (c *Client) GenerateAdvisorTraining(ctx context.Context, topic, additionalContext string) (string, error) {
	return c.generateContent(ctx, FormatAdvisorTraining, topic, additionalContext)
}

// GetFormats 获取可用格式，保持服务端顺序
func (c *Client) GetFormats(ctx context.Context) ([]FormatInfo, error) {
	env, err := getShared[formatsEnvelope](ctx, c, EndpointFormats)
	if err != nil {
		return nil, err
	}
	return slices.Clone(env.Formats), nil
}

// GetVoiceProfile 获取声音画像
func (c *Client) GetVoiceProfile(ctx context.Context) (*VoiceProfile, error) {
	profile, err := getShared[VoiceProfile](ctx, c, EndpointVoiceProfile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetSystemPrompt 获取完整系统提示词
func (c *Client) GetSystemPrompt(ctx context.Context) (string, error) {
	env, err := getShared[systemPromptEnvelope](ctx, c, EndpointSystemPrompt)
	if err != nil {
		return "", err
	}
	return *env.SystemPrompt, nil
}

// HealthCheck 健康检查
func (c *Client) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	status, err := getShared[HealthStatus](ctx, c, EndpointHealth)
	if err != nil {
		return nil, err
	}
	return &status, nil
}
