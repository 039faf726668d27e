package llm

import (
	"context"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"benovitz-content-api/internal/config"
	apperrors "benovitz-content-api/pkg/errors"
)

type stubModel struct{ name string }

func (s *stubModel) Generate(context.Context, []*schema.Message, ...model.Option) (*schema.Message, error) {
	return schema.AssistantMessage(s.name, nil), nil
}

func (s *stubModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return schema.StreamReaderFromArray([]*schema.Message{schema.AssistantMessage(s.name, nil)}), nil
}

func newTestFactory(providers map[string]config.ProviderConfig) (*EinoFactory, *int) {
	builds := 0
	f := NewEinoFactory(&config.Config{LLM: config.LLMConfig{
		DefaultProvider: "openai",
		Providers:       providers,
	}})
	f.build = func(_ context.Context, name string, _ config.ProviderConfig) (model.BaseChatModel, error) {
		builds++
		return &stubModel{name: name}, nil
	}
	return f, &builds
}

func TestEinoFactory_LazyBuildAndCache(t *testing.T) {
	f, builds := newTestFactory(map[string]config.ProviderConfig{
		"openai": {APIKey: "k", Model: "gpt-4o"},
	})

	a, err := f.Get(context.Background(), "")
	require.NoError(t, err)
	b, err := f.Get(context.Background(), "openai")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 1, *builds)
}

func TestEinoFactory_MissingAPIKey(t *testing.T) {
	f, builds := newTestFactory(map[string]config.ProviderConfig{
		"openai": {Model: "gpt-4o"},
	})

	_, err := f.Get(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeProviderNotConfig, apperrors.AsAppError(err).Code)
	assert.Equal(t, 0, *builds)
}

func TestEinoFactory_UnknownProvider(t *testing.T) {
	f, _ := newTestFactory(map[string]config.ProviderConfig{})

	_, err := f.Get(context.Background(), "mistral")
	require.Error(t, err)
	assert.Contains(t, apperrors.AsAppError(err).PublicDetail(), "'mistral'")
}

func TestProviderType(t *testing.T) {
	assert.Equal(t, ProviderTypeGemini, ProviderType("gemini", config.ProviderConfig{}))
	assert.Equal(t, ProviderTypeGemini, ProviderType("google", config.ProviderConfig{Type: "Gemini"}))
	assert.Equal(t, ProviderTypeOpenAI, ProviderType("deepseek", config.ProviderConfig{}))
	assert.Equal(t, ProviderTypeOpenAI, ProviderType("x", config.ProviderConfig{Type: "openai"}))
	assert.Equal(t, ProviderTypeClaude, ProviderType("claude", config.ProviderConfig{}))
	assert.Equal(t, ProviderTypeClaude, ProviderType("x", config.ProviderConfig{Type: "Anthropic"}))
}

func TestEinoFactory_ClaudeMissingAPIKey(t *testing.T) {
	f, builds := newTestFactory(map[string]config.ProviderConfig{
		"claude": {Type: "claude", Model: "claude-sonnet-4-20250514"},
	})

	_, err := f.Get(context.Background(), "claude")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeProviderNotConfig, apperrors.AsAppError(err).Code)
	assert.Equal(t, 0, *builds)
}

func TestClaudeConfig(t *testing.T) {
	cc := claudeConfig(config.ProviderConfig{
		APIKey:      "k",
		Model:       "claude-sonnet-4-20250514",
		Temperature: 0.5,
		Timeout:     30 * time.Second,
	})
	assert.Equal(t, "k", cc.APIKey)
	assert.Equal(t, claudeDefaultMaxTokens, cc.MaxTokens)
	assert.Nil(t, cc.BaseURL)
	require.NotNil(t, cc.Temperature)
	assert.InDelta(t, 0.5, *cc.Temperature, 0.0001)
	require.NotNil(t, cc.HTTPClient)
	assert.Equal(t, 30*time.Second, cc.HTTPClient.Timeout)

	cc = claudeConfig(config.ProviderConfig{MaxTokens: 512, BaseURL: "https://proxy.local"})
	assert.Equal(t, 512, cc.MaxTokens)
	require.NotNil(t, cc.BaseURL)
	assert.Equal(t, "https://proxy.local", *cc.BaseURL)
}

func TestGeminiClientConfig_Timeout(t *testing.T) {
	cc := geminiClientConfig(GeminiConfig{APIKey: "k", Timeout: 45 * time.Second})
	assert.Equal(t, genai.BackendGeminiAPI, cc.Backend)
	require.NotNil(t, cc.HTTPOptions.Timeout)
	assert.Equal(t, 45*time.Second, *cc.HTTPOptions.Timeout)

	cc = geminiClientConfig(GeminiConfig{APIKey: "k"})
	assert.Nil(t, cc.HTTPOptions.Timeout)
}

func TestToGenaiContents_SplitsSystem(t *testing.T) {
	system, contents := toGenaiContents([]*schema.Message{
		schema.SystemMessage("be warm"),
		schema.UserMessage("topic"),
		schema.AssistantMessage("draft", nil),
	})

	require.NotNil(t, system)
	require.Len(t, system.Parts, 1)
	assert.Equal(t, "be warm", system.Parts[0].Text)
	require.Len(t, contents, 2)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
}

func TestFromGenaiResponse(t *testing.T) {
	msg, usage, err := fromGenaiResponse(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				genai.NewPartFromText("Hello "),
				genai.NewPartFromText("world"),
			}},
			FinishReason: genai.FinishReasonStop,
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     10,
			CandidatesTokenCount: 5,
			TotalTokenCount:      15,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello world", msg.Content)
	assert.Equal(t, schema.Assistant, msg.Role)
	assert.Equal(t, 10, usage.PromptTokens)
	assert.Equal(t, 5, msg.ResponseMeta.Usage.CompletionTokens)

	_, _, err = fromGenaiResponse(&genai.GenerateContentResponse{})
	assert.Error(t, err)
}

func TestEinoFactory_Describe(t *testing.T) {
	f, _ := newTestFactory(map[string]config.ProviderConfig{
		"openai": {Model: "gpt-4o"},
	})

	provider, modelName := f.Describe("")
	assert.Equal(t, "openai", provider)
	assert.Equal(t, "gpt-4o", modelName)

	provider, modelName = f.Describe("missing")
	assert.Equal(t, "missing", provider)
	assert.Empty(t, modelName)
}
