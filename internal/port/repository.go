package port

import (
	"context"

	"github.com/google/uuid"

	"cloudquote/internal/domain"
)

// BatchRepository persists batch runs and their per-record results.
type BatchRepository interface {
	CreateBatch(ctx context.Context, report *domain.BatchReport) error
	// FinishBatch stores the final summary and flips the batch status.
	FinishBatch(ctx context.Context, report *domain.BatchReport, status domain.BatchStatus) error
	SaveResult(ctx context.Context, batchID uuid.UUID, result domain.QuoteResult) error
	GetBatch(ctx context.Context, batchID uuid.UUID) (*domain.BatchReport, error)
	ListBatches(ctx context.Context, limit, offset int) ([]domain.BatchReport, error)
}

// InterpretationCache stores interpretation results keyed by the raw
// description text. Only language-model successes are cached.
type InterpretationCache interface {
	Get(ctx context.Context, text string) (*domain.ResourceRequirement, bool)
	Put(ctx context.Context, text string, req domain.ResourceRequirement)
}
