package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"benovitz-content-api/internal/domain/voice"
)

// ContentInput 一次内容生成的提示词输入
type ContentInput struct {
	Profile           voice.Profile
	Format            voice.Format
	Topic             string
	AdditionalContext string
}

// ContentMessages 渲染 system + user 消息，供模型调用
func (r *Registry) ContentMessages(ctx context.Context, in ContentInput) ([]*schema.Message, error) {
	tpl, err := r.ChatTemplate(PromptContentV1)
	if err != nil {
		return nil, err
	}
	vars := profileVars(in.Profile)
	vars["topic"] = strings.TrimSpace(in.Topic)
	vars["format_instructions"] = voice.Instructions(in.Format)
	vars["context_block"] = contextBlock(in.AdditionalContext)
	return tpl.Format(ctx, vars)
}

// SystemPrompt 渲染系统提示词
func (r *Registry) SystemPrompt(ctx context.Context, profile voice.Profile) (string, error) {
	msgs, err := r.ContentMessages(ctx, ContentInput{Profile: profile, Format: voice.FormatArticle})
	if err != nil {
		return "", err
	}
	for _, m := range msgs {
		if m.Role == schema.System {
			return m.Content, nil
		}
	}
	return "", fmt.Errorf("content prompt has no system message")
}

// PromptOnly 渲染可直接粘贴到任意模型的完整提示词
func (r *Registry) PromptOnly(ctx context.Context, in ContentInput) (string, error) {
	system, err := r.SystemPrompt(ctx, in.Profile)
	if err != nil {
		return "", err
	}
	tpl, err := r.ChatTemplate(PromptPromptOnlyV1)
	if err != nil {
		return "", err
	}
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_prompt":       system,
		"format_instructions": voice.Instructions(in.Format),
		"topic":               strings.TrimSpace(in.Topic),
		"context_block":       contextBlock(in.AdditionalContext),
		"name":                strings.TrimSpace(in.Profile.Name),
	})
	if err != nil {
		return "", err
	}
	if len(msgs) == 0 {
		return "", fmt.Errorf("prompt-only template rendered no messages")
	}
	return msgs[len(msgs)-1].Content, nil
}

func profileVars(p voice.Profile) map[string]any {
	p = p.Trimmed()
	return map[string]any{
		"name":              p.Name,
		"tone":              p.Tone,
		"style_patterns":    p.StylePatterns,
		"themes":            p.Themes,
		"influences":        p.Influences,
		"hebrew_vocabulary": p.HebrewVocabulary,
		"transitions":       p.Transitions,
	}
}

func contextBlock(additional string) string {
	additional = strings.TrimSpace(additional)
	if additional == "" {
		return ""
	}
	return "**Additional Context/Notes**: " + additional
}
