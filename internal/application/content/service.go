// Package content 提供声音内容生成的应用服务
package content

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/compose"

	"benovitz-content-api/internal/domain/service"
	"benovitz-content-api/internal/domain/voice"
	"benovitz-content-api/internal/workflow/port"
	workflowprompt "benovitz-content-api/internal/workflow/prompt"
	apperrors "benovitz-content-api/pkg/errors"
	"benovitz-content-api/pkg/logger"
	"benovitz-content-api/pkg/metrics"
)

// GenerateInput 生成请求
type GenerateInput struct {
	RequestID         string
	Topic             string
	Format            string
	AdditionalContext string
	PromptOnly        bool
	// Provider 为空时使用默认提供商
	Provider string
}

// GenerateOutput 生成结果
type GenerateOutput struct {
	Content string
	Format  voice.Format
	Topic   string
}

// Service 内容生成服务
type Service struct {
	registry *workflowprompt.Registry
	factory  port.ChatModelFactory
	recorder service.LLMUsageRecorder
	profile  voice.Profile

	chainOnce sync.Once
	chain     compose.Runnable[*chainInput, *chainOutput]
	chainErr  error
}

// NewService 创建内容生成服务；recorder 可为 nil
func NewService(registry *workflowprompt.Registry, factory port.ChatModelFactory, recorder service.LLMUsageRecorder) *Service {
	return &Service{
		registry: registry,
		factory:  factory,
		recorder: recorder,
		profile:  voice.DefaultProfile(),
	}
}

// Formats 返回可用格式
func (s *Service) Formats() []voice.FormatInfo {
	return voice.Formats()
}

// VoiceProfile 返回去除首尾空白的声音画像
func (s *Service) VoiceProfile() voice.Profile {
	return s.profile.Trimmed()
}

// SystemPrompt 返回完整系统提示词
func (s *Service) SystemPrompt(ctx context.Context) (string, error) {
	out, err := s.registry.SystemPrompt(ctx, s.profile)
	if err != nil {
		return "", apperrors.ErrInternalError.WithError(err)
	}
	return out, nil
}

// Generate 按格式生成内容；PromptOnly 时只渲染提示词，不调用模型
func (s *Service) Generate(ctx context.Context, in GenerateInput) (*GenerateOutput, error) {
	format, err := voice.ParseFormat(in.Format)
	if err != nil {
		return nil, err
	}
	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		return nil, apperrors.ErrEmptyTopic
	}

	ctx = logger.WithContext(ctx, logger.FormatKey, string(format))
	mode := "model"
	if in.PromptOnly {
		mode = "prompt_only"
	}

	start := time.Now()
	content, usage, err := s.generate(ctx, format, topic, in)
	elapsed := time.Since(start)
	metrics.GenerationDuration.WithLabelValues(string(format)).Observe(elapsed.Seconds())
	if err != nil {
		metrics.GenerationTotal.WithLabelValues(string(format), mode, "error").Inc()
		logger.Error(ctx, "content generation failed", err, "mode", mode)
		return nil, err
	}

	metrics.GenerationTotal.WithLabelValues(string(format), mode, "success").Inc()
	words := len(strings.Fields(content))
	if !in.PromptOnly {
		metrics.GeneratedWordCount.WithLabelValues(string(format)).Observe(float64(words))
	}
	logger.Info(ctx, "content generated", "mode", mode, "words", words, "duration_ms", elapsed.Milliseconds())

	s.recordUsage(ctx, in, format, usage, elapsed)

	// 回显调用方传入的原始 topic 与格式值
	return &GenerateOutput{
		Content: content,
		Format:  format,
		Topic:   in.Topic,
	}, nil
}

func (s *Service) generate(ctx context.Context, format voice.Format, topic string, in GenerateInput) (string, *chainOutput, error) {
	cin := workflowprompt.ContentInput{
		Profile:           s.profile,
		Format:            format,
		Topic:             topic,
		AdditionalContext: in.AdditionalContext,
	}

	if in.PromptOnly {
		out, err := s.registry.PromptOnly(ctx, cin)
		if err != nil {
			return "", nil, apperrors.ErrInternalError.WithError(err)
		}
		return out, nil, nil
	}

	chain, err := s.getChain()
	if err != nil {
		return "", nil, apperrors.ErrInternalError.WithError(err)
	}
	out, err := chain.Invoke(ctx, &chainInput{Content: cin, Provider: in.Provider})
	if err != nil {
		return "", nil, translateChainError(err)
	}
	return out.Content, out, nil
}

// recordUsage 用量流水为 best-effort，失败只记录日志
func (s *Service) recordUsage(ctx context.Context, in GenerateInput, format voice.Format, out *chainOutput, elapsed time.Duration) {
	if s.recorder == nil {
		return
	}
	rec := service.LLMUsageInput{
		RequestID:  in.RequestID,
		Format:     string(format),
		PromptOnly: in.PromptOnly,
		DurationMs: int(elapsed.Milliseconds()),
		Provider:   "none",
		Model:      "none",
	}
	if out != nil {
		rec.Provider = out.Provider
		rec.Model = out.Model
		rec.PromptTokens = out.PromptTokens
		rec.CompletionTokens = out.CompletionTokens
	}
	if err := s.recorder.Record(ctx, rec); err != nil {
		logger.Warn(ctx, "failed to record usage", "error", err.Error())
	}
}

// translateChainError 将链路错误映射为对外错误
func translateChainError(err error) error {
	if apperrors.IsAppError(err) {
		return apperrors.AsAppError(err)
	}
	return apperrors.ErrLLMProviderFailure.WithError(err).WithDetail("Error: " + err.Error())
}
