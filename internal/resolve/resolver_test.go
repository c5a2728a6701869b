package resolve_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cloudquote/internal/domain"
	"cloudquote/internal/logging"
	"cloudquote/internal/port"
	"cloudquote/internal/resolve"
	"cloudquote/mocks"
)

var testReq = domain.ResourceRequirement{CPUCores: 4, MemoryGiB: 8, Workload: domain.WorkloadGeneral}

func queryWith(strategy domain.RankStrategy, families []string) any {
	return mock.MatchedBy(func(q port.RecommendQuery) bool {
		if q.Strategy != strategy || q.CPUCores != 4 || q.MemoryGiB != 8 {
			return false
		}
		if len(q.Families) != len(families) {
			return false
		}
		for i := range families {
			if q.Families[i] != families[i] {
				return false
			}
		}
		return true
	})
}

var gen8 = []string{"ecs.g8y", "ecs.c8y", "ecs.r8y"}

func TestResolver_FirstStrategyWins(t *testing.T) {
	api := new(mocks.MockRecommender)
	api.On("Recommend", mock.Anything, queryWith(domain.RankNewProductFirst, nil)).
		Return([]domain.SKUCandidate{
			{InstanceType: "ecs.g8y.xlarge", InstanceFamily: "ecs.g8y", CPUCores: 4, MemoryGiB: 8},
			{InstanceType: "ecs.c8y.xlarge", InstanceFamily: "ecs.c8y", CPUCores: 4, MemoryGiB: 8},
		}, nil).Once()

	r := resolve.New(api, false, logging.NewNop())
	sku, err := r.Resolve(context.Background(), "cn-beijing", testReq)

	require.NoError(t, err)
	assert.Equal(t, "ecs.g8y.xlarge", sku.InstanceType)
	api.AssertNumberOfCalls(t, "Recommend", 1)
}

func TestResolver_FallsThroughChainInOrder(t *testing.T) {
	api := new(mocks.MockRecommender)
	api.On("Recommend", mock.Anything, queryWith(domain.RankNewProductFirst, nil)).
		Return([]domain.SKUCandidate{}, nil).Once()
	api.On("Recommend", mock.Anything, queryWith(domain.RankInventoryFirst, gen8)).
		Return([]domain.SKUCandidate{}, nil).Once()
	api.On("Recommend", mock.Anything, queryWith(domain.RankPriceFirst, gen8)).
		Return([]domain.SKUCandidate{{InstanceType: "ecs.r8y.xlarge", InstanceFamily: "ecs.r8y"}}, nil).Once()

	r := resolve.New(api, false, logging.NewNop())
	sku, err := r.Resolve(context.Background(), "cn-beijing", testReq)

	require.NoError(t, err)
	assert.Equal(t, "ecs.r8y.xlarge", sku.InstanceType)
	api.AssertExpectations(t)
}

func TestResolver_ExhaustionHasNoDefault(t *testing.T) {
	api := new(mocks.MockRecommender)
	api.On("Recommend", mock.Anything, mock.Anything).
		Return([]domain.SKUCandidate{}, nil).Times(3)

	r := resolve.New(api, false, logging.NewNop())
	sku, err := r.Resolve(context.Background(), "cn-hangzhou", testReq)

	assert.Nil(t, sku)
	var exhausted *domain.ResolutionExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, "cn-hangzhou", exhausted.Region)
	assert.Len(t, exhausted.Attempts, 3)
}

func TestResolver_RemoteErrorTreatedAsEmpty(t *testing.T) {
	api := new(mocks.MockRecommender)
	api.On("Recommend", mock.Anything, queryWith(domain.RankNewProductFirst, nil)).
		Return(nil, errors.New("throttled")).Once()
	api.On("Recommend", mock.Anything, queryWith(domain.RankInventoryFirst, gen8)).
		Return([]domain.SKUCandidate{{InstanceType: "ecs.g8y.large"}}, nil).Once()

	r := resolve.New(api, false, logging.NewNop())
	sku, err := r.Resolve(context.Background(), "cn-beijing", testReq)

	require.NoError(t, err)
	assert.Equal(t, "ecs.g8y.large", sku.InstanceType)
}

func TestResolver_FailFastAborts(t *testing.T) {
	api := new(mocks.MockRecommender)
	api.On("Recommend", mock.Anything, mock.Anything).
		Return(nil, errors.New("throttled")).Once()

	r := resolve.New(api, true, logging.NewNop())
	_, err := r.Resolve(context.Background(), "cn-beijing", testReq)

	assert.EqualError(t, err, "throttled")
	api.AssertNumberOfCalls(t, "Recommend", 1)
}
