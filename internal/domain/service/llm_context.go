package service

import (
	"context"
	"strings"
)

type llmCtxKey string

const (
	llmCtxKeyFormat   llmCtxKey = "llm_format"
	llmCtxKeyProvider llmCtxKey = "llm_provider"
)

func WithFormat(ctx context.Context, format string) context.Context {
	if ctx == nil {
		return nil
	}
	f := strings.TrimSpace(format)
	if f == "" {
		return ctx
	}
	return context.WithValue(ctx, llmCtxKeyFormat, f)
}

func WithProvider(ctx context.Context, provider string) context.Context {
	if ctx == nil {
		return nil
	}
	p := strings.TrimSpace(provider)
	if p == "" {
		return ctx
	}
	return context.WithValue(ctx, llmCtxKeyProvider, p)
}

func WithFormatProvider(ctx context.Context, format, provider string) context.Context {
	return WithProvider(WithFormat(ctx, format), provider)
}

func FormatFromContext(ctx context.Context) string {
	return stringFromContext(ctx, llmCtxKeyFormat)
}

func ProviderFromContext(ctx context.Context) string {
	return stringFromContext(ctx, llmCtxKeyProvider)
}

func stringFromContext(ctx context.Context, key llmCtxKey) string {
	if ctx == nil {
		return "unknown"
	}
	s, ok := ctx.Value(key).(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return strings.TrimSpace(s)
}
