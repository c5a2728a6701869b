package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cloudquote/internal/domain"
	"cloudquote/internal/port"
)

// MockRecommender is a mock implementation of port.Recommender.
type MockRecommender struct {
	mock.Mock
}

func (m *MockRecommender) Recommend(ctx context.Context, q port.RecommendQuery) ([]domain.SKUCandidate, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SKUCandidate), args.Error(1)
}
