// Package usage 提供生成用量流水记录
package usage

import (
	"context"
	"fmt"
	"strings"

	"benovitz-content-api/internal/domain/entity"
	"benovitz-content-api/internal/domain/repository"
	"benovitz-content-api/internal/domain/service"
	apperrors "benovitz-content-api/pkg/errors"
	"benovitz-content-api/pkg/metrics"
)

type LLMUsageRecorder struct {
	usageRepo repository.LLMUsageEventRepository
}

var _ service.LLMUsageRecorder = (*LLMUsageRecorder)(nil)

func NewLLMUsageRecorder(usageRepo repository.LLMUsageEventRepository) *LLMUsageRecorder {
	return &LLMUsageRecorder{usageRepo: usageRepo}
}

func (r *LLMUsageRecorder) Record(ctx context.Context, in service.LLMUsageInput) error {
	if r == nil || r.usageRepo == nil {
		return nil
	}
	if in.PromptTokens < 0 || in.CompletionTokens < 0 {
		return fmt.Errorf("invalid token usage")
	}

	evt := &entity.LLMUsageEvent{
		RequestID:        strings.TrimSpace(in.RequestID),
		Provider:         strings.TrimSpace(in.Provider),
		Model:            strings.TrimSpace(in.Model),
		Format:           strings.TrimSpace(in.Format),
		PromptOnly:       in.PromptOnly,
		TokensPrompt:     in.PromptTokens,
		TokensCompletion: in.CompletionTokens,
		DurationMs:       in.DurationMs,
	}
	if err := r.usageRepo.Create(ctx, evt); err != nil {
		metrics.UsageLedgerWrites.WithLabelValues("error").Inc()
		return apperrors.ErrUsageLedgerFailure.WithError(err)
	}
	metrics.UsageLedgerWrites.WithLabelValues("success").Inc()
	return nil
}
