package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

const geminiType = "Gemini"

// GeminiConfig Gemini 适配器配置
type GeminiConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	// Timeout 单次请求超时，0 表示使用 genai 默认值
	Timeout time.Duration
}

// GeminiChatModel 以 Eino ChatModel 接口包装 genai 客户端
type GeminiChatModel struct {
	client *genai.Client
	conf   GeminiConfig
}

var _ model.BaseChatModel = (*GeminiChatModel)(nil)

// NewGeminiChatModel 创建 Gemini ChatModel
func NewGeminiChatModel(ctx context.Context, cfg GeminiConfig) (*GeminiChatModel, error) {
	client, err := genai.NewClient(ctx, geminiClientConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiChatModel{client: client, conf: cfg}, nil
}

func geminiClientConfig(cfg GeminiConfig) *genai.ClientConfig {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Timeout > 0 {
		timeout := cfg.Timeout
		cc.HTTPOptions.Timeout = &timeout
	}
	return cc
}

func (m *GeminiChatModel) GetType() string { return geminiType }

func (m *GeminiChatModel) IsCallbacksEnabled() bool { return true }

// Generate 调用 GenerateContent 并转换为 schema.Message
func (m *GeminiChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (outMsg *schema.Message, err error) {
	options := model.GetCommonOptions(&model.Options{
		Model:       &m.conf.Model,
		MaxTokens:   &m.conf.MaxTokens,
		Temperature: &m.conf.Temperature,
	}, opts...)

	conf := &model.Config{}
	if options.Model != nil {
		conf.Model = *options.Model
	}
	if options.MaxTokens != nil {
		conf.MaxTokens = *options.MaxTokens
	}
	if options.Temperature != nil {
		conf.Temperature = *options.Temperature
	}

	ctx = callbacks.EnsureRunInfo(ctx, m.GetType(), components.ComponentOfChatModel)
	ctx = callbacks.OnStart(ctx, &model.CallbackInput{Messages: input, Config: conf})
	defer func() {
		if err != nil {
			callbacks.OnError(ctx, err)
		}
	}()

	system, contents := toGenaiContents(input)
	genConf := &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       genai.Ptr(conf.Temperature),
		MaxOutputTokens:   int32(conf.MaxTokens),
	}

	resp, err := m.client.Models.GenerateContent(ctx, conf.Model, contents, genConf)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	outMsg, usage, err := fromGenaiResponse(resp)
	if err != nil {
		return nil, err
	}

	callbacks.OnEnd(ctx, &model.CallbackOutput{
		Message:    outMsg,
		Config:     conf,
		TokenUsage: usage,
	})
	return outMsg, nil
}

// Stream 一次性生成后以单元素流返回
func (m *GeminiChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// toGenaiContents 拆分系统消息与对话消息
func toGenaiContents(input []*schema.Message) (*genai.Content, []*genai.Content) {
	var system *genai.Content
	contents := make([]*genai.Content, 0, len(input))
	for _, msg := range input {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.System:
			if system == nil {
				system = &genai.Content{Role: "user"}
			}
			system.Parts = append(system.Parts, genai.NewPartFromText(msg.Content))
		case schema.Assistant:
			contents = append(contents, &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
			})
		}
	}
	return system, contents
}

func fromGenaiResponse(resp *genai.GenerateContentResponse) (*schema.Message, *model.TokenUsage, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, nil, fmt.Errorf("no response candidates returned")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, nil, fmt.Errorf("empty response content")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}

	msg := &schema.Message{
		Role:    schema.Assistant,
		Content: sb.String(),
		ResponseMeta: &schema.ResponseMeta{
			FinishReason: string(candidate.FinishReason),
		},
	}

	var usage *model.TokenUsage
	if md := resp.UsageMetadata; md != nil {
		usage = &model.TokenUsage{
			PromptTokens:     int(md.PromptTokenCount),
			CompletionTokens: int(md.CandidatesTokenCount),
			TotalTokens:      int(md.TotalTokenCount),
		}
		msg.ResponseMeta.Usage = &schema.TokenUsage{
			PromptTokens:     usage.PromptTokens,
			CompletionTokens: usage.CompletionTokens,
			TotalTokens:      usage.TotalTokens,
		}
	}
	return msg, usage, nil
}
