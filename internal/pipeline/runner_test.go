package pipeline_test

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cloudquote/internal/domain"
	"cloudquote/internal/interpret"
	"cloudquote/internal/logging"
	"cloudquote/internal/pipeline"
	"cloudquote/internal/port"
	"cloudquote/internal/pricing"
	"cloudquote/internal/resolve"
	"cloudquote/mocks"
)

type sliceSource []domain.SourceRecord

func (s sliceSource) Count() int { return len(s) }

func (s sliceSource) Stream() iter.Seq[domain.SourceRecord] {
	return func(yield func(domain.SourceRecord) bool) {
		for _, rec := range s {
			if !yield(rec) {
				return
			}
		}
	}
}

func hintedRecord(index, cpu, mem, storage, qty int) domain.SourceRecord {
	return domain.SourceRecord{
		Index:       index,
		Kind:        domain.KindText,
		Description: "server",
		Quantity:    qty,
		Hints:       &domain.SpecHints{CPUCores: cpu, MemoryGiB: mem, StorageGB: storage},
	}
}

func newRunner(t *testing.T, llm port.ChatCompleter, rec port.Recommender, price port.PriceAPI, workers int) *pipeline.Runner {
	t.Helper()
	logger := logging.NewNop()
	return pipeline.NewRunner(
		interpret.New(llm, nil, logger),
		resolve.New(rec, false, logger),
		pricing.New(price, pricing.DefaultOptions(), logger),
		pipeline.Options{Region: "cn-beijing", Category: domain.CategoryECS, Workers: workers},
		logger,
	)
}

func TestRunner_HappyPathWithSummary(t *testing.T) {
	rec := new(mocks.MockRecommender)
	rec.On("Recommend", mock.Anything, mock.Anything).
		Return([]domain.SKUCandidate{{InstanceType: "ecs.g8y.xlarge", InstanceFamily: "ecs.g8y"}}, nil)

	price := new(mocks.MockPriceAPI)
	price.On("DescribePrice", mock.Anything, mock.Anything).
		Return(decimal.NewFromInt(100), nil)

	runner := newRunner(t, new(mocks.MockChatCompleter), rec, price, 1)
	report, err := runner.Run(context.Background(), sliceSource{
		hintedRecord(1, 4, 8, 0, 1),
		hintedRecord(2, 8, 16, 200, 3),
	}, "")

	require.NoError(t, err)
	assert.Equal(t, 2, report.Summary.Total)
	assert.Equal(t, 2, report.Summary.Succeeded)
	assert.Equal(t, 0, report.Summary.Failed)
	// 100*1 + 100*3 quantity-weighted.
	assert.True(t, decimal.NewFromInt(400).Equal(report.Summary.TotalMonthly))
	assert.True(t, decimal.NewFromInt(200).Equal(report.Summary.AverageMonthly))
	for _, result := range report.Results {
		assert.Equal(t, domain.StageDone, result.Stage)
	}
}

func TestRunner_FailedRecordDoesNotAbortBatch(t *testing.T) {
	rec := new(mocks.MockRecommender)
	// First record resolves, second finds nothing anywhere.
	rec.On("Recommend", mock.Anything, mock.MatchedBy(func(q port.RecommendQuery) bool {
		return q.CPUCores == 4
	})).Return([]domain.SKUCandidate{{InstanceType: "ecs.g8y.xlarge"}}, nil)
	rec.On("Recommend", mock.Anything, mock.MatchedBy(func(q port.RecommendQuery) bool {
		return q.CPUCores == 96
	})).Return([]domain.SKUCandidate{}, nil)

	price := new(mocks.MockPriceAPI)
	price.On("DescribePrice", mock.Anything, mock.Anything).
		Return(decimal.NewFromInt(100), nil)

	runner := newRunner(t, new(mocks.MockChatCompleter), rec, price, 1)
	report, err := runner.Run(context.Background(), sliceSource{
		hintedRecord(1, 4, 8, 0, 1),
		hintedRecord(2, 96, 768, 0, 1),
		hintedRecord(3, 4, 8, 0, 1),
	}, "")

	require.NoError(t, err)
	assert.Equal(t, domain.StageDone, report.Results[0].Stage)
	assert.Equal(t, domain.StageFailed, report.Results[1].Stage)
	assert.Contains(t, report.Results[1].FailReason, "resolve")
	assert.Equal(t, domain.StageDone, report.Results[2].Stage)
	assert.Equal(t, 2, report.Summary.Succeeded)
	assert.Equal(t, 1, report.Summary.Failed)
}

func TestRunner_WrongCategorySkippedBeforeInterpretation(t *testing.T) {
	llm := new(mocks.MockChatCompleter)
	rec := new(mocks.MockRecommender)
	price := new(mocks.MockPriceAPI)

	runner := newRunner(t, llm, rec, price, 1)
	report, err := runner.Run(context.Background(), sliceSource{
		{
			Index: 1, Kind: domain.KindText, Quantity: 1,
			Description: "polar.mysql.x4.medium 两节点",
		},
	}, "")

	require.NoError(t, err)
	result := report.Results[0]
	assert.Equal(t, domain.StageFailed, result.Stage)
	assert.Contains(t, result.FailReason, "skipped:")
	assert.Equal(t, 1, report.Summary.Skipped)
	assert.Equal(t, 0, report.Summary.Failed)
	llm.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
	rec.AssertNotCalled(t, "Recommend", mock.Anything, mock.Anything)
}

func TestRunner_StorageChangeKeepsInstanceType(t *testing.T) {
	rec := new(mocks.MockRecommender)
	rec.On("Recommend", mock.Anything, mock.Anything).
		Return([]domain.SKUCandidate{{InstanceType: "ecs.g8y.xlarge"}}, nil)
	price := new(mocks.MockPriceAPI)
	price.On("DescribePrice", mock.Anything, mock.MatchedBy(func(q port.PriceQuery) bool {
		return q.DataDiskGB == 0
	})).Return(decimal.NewFromInt(100), nil)
	price.On("DescribePrice", mock.Anything, mock.MatchedBy(func(q port.PriceQuery) bool {
		return q.DataDiskGB == 500
	})).Return(decimal.NewFromInt(150), nil)

	runner := newRunner(t, new(mocks.MockChatCompleter), rec, price, 1)
	report, err := runner.Run(context.Background(), sliceSource{
		hintedRecord(1, 4, 8, 0, 1),
		hintedRecord(2, 4, 8, 500, 1),
	}, "")

	require.NoError(t, err)
	// Storage never reaches the recommendation query, so both records
	// land on the same instance type and differ only in price.
	assert.Equal(t, report.Results[0].SKU.InstanceType, report.Results[1].SKU.InstanceType)
	assert.True(t, decimal.NewFromInt(100).Equal(report.Results[0].Price.Monthly))
	assert.True(t, decimal.NewFromInt(150).Equal(report.Results[1].Price.Monthly))
}

func TestRunner_ParallelKeepsSourceOrder(t *testing.T) {
	rec := new(mocks.MockRecommender)
	rec.On("Recommend", mock.Anything, mock.Anything).
		Return([]domain.SKUCandidate{{InstanceType: "ecs.g8y.xlarge"}}, nil)
	price := new(mocks.MockPriceAPI)
	price.On("DescribePrice", mock.Anything, mock.Anything).
		Return(decimal.NewFromInt(100), nil)

	var records sliceSource
	for i := 1; i <= 20; i++ {
		records = append(records, hintedRecord(i, 4, 8, 0, 1))
	}

	runner := newRunner(t, new(mocks.MockChatCompleter), rec, price, 4)
	report, err := runner.Run(context.Background(), records, "")

	require.NoError(t, err)
	require.Len(t, report.Results, 20)
	for i, result := range report.Results {
		assert.Equal(t, i+1, result.Record.Index)
		assert.Equal(t, domain.StageDone, result.Stage)
	}
}

func TestRunner_ContextCancelAborts(t *testing.T) {
	rec := new(mocks.MockRecommender)
	rec.On("Recommend", mock.Anything, mock.Anything).
		Return(nil, errors.New("should not matter"))
	price := new(mocks.MockPriceAPI)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := newRunner(t, new(mocks.MockChatCompleter), rec, price, 1)
	_, err := runner.Run(ctx, sliceSource{hintedRecord(1, 4, 8, 0, 1)}, "")
	assert.ErrorIs(t, err, context.Canceled)
}
