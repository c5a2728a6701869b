package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cloudquote/internal/domain"
	"cloudquote/internal/service"
)

// MockQuotationService is a mock implementation of service.QuotationService.
type MockQuotationService struct {
	mock.Mock
}

func (m *MockQuotationService) Quote(ctx context.Context, req service.QuoteRequest) (*service.QuoteOutcome, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.QuoteOutcome), args.Error(1)
}

func (m *MockQuotationService) GetBatch(ctx context.Context, batchID uuid.UUID) (*domain.BatchReport, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchReport), args.Error(1)
}

func (m *MockQuotationService) ListBatches(ctx context.Context, limit, offset int) ([]domain.BatchReport, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BatchReport), args.Error(1)
}

func (m *MockQuotationService) ExportBatch(ctx context.Context, batchID uuid.UUID, w io.Writer) error {
	args := m.Called(ctx, batchID, w)
	return args.Error(0)
}
