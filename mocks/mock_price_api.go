package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"cloudquote/internal/port"
)

// MockPriceAPI is a mock implementation of port.PriceAPI.
type MockPriceAPI struct {
	mock.Mock
}

func (m *MockPriceAPI) DescribePrice(ctx context.Context, q port.PriceQuery) (decimal.Decimal, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
