package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cloudquote/internal/domain"
)

// MockBatchRepository is a mock implementation of port.BatchRepository.
type MockBatchRepository struct {
	mock.Mock
}

func (m *MockBatchRepository) CreateBatch(ctx context.Context, report *domain.BatchReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockBatchRepository) FinishBatch(ctx context.Context, report *domain.BatchReport, status domain.BatchStatus) error {
	args := m.Called(ctx, report, status)
	return args.Error(0)
}

func (m *MockBatchRepository) SaveResult(ctx context.Context, batchID uuid.UUID, result domain.QuoteResult) error {
	args := m.Called(ctx, batchID, result)
	return args.Error(0)
}

func (m *MockBatchRepository) GetBatch(ctx context.Context, batchID uuid.UUID) (*domain.BatchReport, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchReport), args.Error(1)
}

func (m *MockBatchRepository) ListBatches(ctx context.Context, limit, offset int) ([]domain.BatchReport, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BatchReport), args.Error(1)
}
