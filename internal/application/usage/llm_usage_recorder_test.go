package usage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benovitz-content-api/internal/domain/entity"
	"benovitz-content-api/internal/domain/service"
	apperrors "benovitz-content-api/pkg/errors"
)

type fakeUsageRepo struct {
	events []*entity.LLMUsageEvent
	err    error
}

func (f *fakeUsageRepo) Create(_ context.Context, event *entity.LLMUsageEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func TestRecord_WritesEvent(t *testing.T) {
	repo := &fakeUsageRepo{}
	r := NewLLMUsageRecorder(repo)

	err := r.Record(context.Background(), service.LLMUsageInput{
		RequestID:        "req-1",
		Format:           " article ",
		Provider:         "openai",
		Model:            "gpt-4o",
		PromptTokens:     100,
		CompletionTokens: 900,
		DurationMs:       4200,
	})
	require.NoError(t, err)
	require.Len(t, repo.events, 1)

	evt := repo.events[0]
	assert.Equal(t, "article", evt.Format)
	assert.Equal(t, 1000, evt.TotalTokens())
	assert.Equal(t, "req-1", evt.RequestID)
}

func TestRecord_RejectsNegativeTokens(t *testing.T) {
	repo := &fakeUsageRepo{}
	err := NewLLMUsageRecorder(repo).Record(context.Background(), service.LLMUsageInput{PromptTokens: -1})
	assert.Error(t, err)
	assert.Empty(t, repo.events)
}

func TestRecord_WrapsRepositoryFailure(t *testing.T) {
	repo := &fakeUsageRepo{err: errors.New("connection refused")}
	err := NewLLMUsageRecorder(repo).Record(context.Background(), service.LLMUsageInput{Format: "article"})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeDatabaseError, apperrors.AsAppError(err).Code)
	assert.ErrorContains(t, err, "connection refused")
}

func TestRecord_NilRepoIsNoop(t *testing.T) {
	var r *LLMUsageRecorder
	assert.NoError(t, r.Record(context.Background(), service.LLMUsageInput{}))
	assert.NoError(t, NewLLMUsageRecorder(nil).Record(context.Background(), service.LLMUsageInput{}))
}
