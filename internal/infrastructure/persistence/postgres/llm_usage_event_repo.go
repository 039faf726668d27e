package postgres

import (
	"context"
	"fmt"

	"benovitz-content-api/internal/domain/entity"
	"benovitz-content-api/internal/domain/repository"
)

type LLMUsageEventRepository struct {
	client *Client
}

var _ repository.LLMUsageEventRepository = (*LLMUsageEventRepository)(nil)

func NewLLMUsageEventRepository(client *Client) *LLMUsageEventRepository {
	return &LLMUsageEventRepository{client: client}
}

func (r *LLMUsageEventRepository) Create(ctx context.Context, event *entity.LLMUsageEvent) error {
	ctx, span := tracer.Start(ctx, "postgres.LLMUsageEventRepository.Create")
	defer span.End()

	if err := r.client.db.WithContext(ctx).Create(event).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create llm usage event: %w", err)
	}
	return nil
}
