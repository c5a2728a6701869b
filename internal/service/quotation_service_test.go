package service_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"cloudquote/internal/domain"
	"cloudquote/internal/interpret"
	"cloudquote/internal/logging"
	"cloudquote/internal/pipeline"
	"cloudquote/internal/pricing"
	"cloudquote/internal/resolve"
	"cloudquote/internal/service"
	"cloudquote/mocks"
)

func specWorkbook(t *testing.T) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{
		{"产品名称", "描述", "数量", "CPU", "内存", "存储"},
		{"web服务器", "4核8G nginx", 1, 4, 8, ""},
		{"数据库", "8核32G mysql", 2, 8, 32, 500},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func newService(t *testing.T, repo *mocks.MockBatchRepository, storage *mocks.MockObjectStorage) service.QuotationService {
	t.Helper()
	logger := logging.NewNop()

	rec := new(mocks.MockRecommender)
	rec.On("Recommend", mock.Anything, mock.Anything).
		Return([]domain.SKUCandidate{{InstanceType: "ecs.g8y.xlarge", InstanceFamily: "ecs.g8y"}}, nil)
	price := new(mocks.MockPriceAPI)
	price.On("DescribePrice", mock.Anything, mock.Anything).
		Return(decimal.NewFromInt(300), nil)

	llm := new(mocks.MockChatCompleter)
	runner := pipeline.NewRunner(
		interpret.New(llm, nil, logger),
		resolve.New(rec, false, logger),
		pricing.New(price, pricing.DefaultOptions(), logger),
		pipeline.Options{Region: "cn-beijing", Category: domain.CategoryECS, Workers: 1},
		logger,
	)

	// Typed nils must not reach the interface parameters.
	if repo == nil {
		return service.NewQuotationService(runner, llm, nil, nil, "cn-beijing", logger)
	}
	if storage == nil {
		return service.NewQuotationService(runner, llm, repo, nil, "cn-beijing", logger)
	}
	return service.NewQuotationService(runner, llm, repo, storage, "cn-beijing", logger)
}

func TestQuotationService_QuotePersistsAndUploads(t *testing.T) {
	repo := new(mocks.MockBatchRepository)
	repo.On("CreateBatch", mock.Anything, mock.Anything).Return(nil).Once()
	repo.On("SaveResult", mock.Anything, mock.Anything, mock.Anything).Return(nil).Times(2)
	repo.On("FinishBatch", mock.Anything, mock.Anything, domain.BatchStatusCompleted).Return(nil).Once()

	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return len(key) > 0
	}), mock.Anything, mock.Anything).Return(nil).Once()
	storage.On("PresignDownload", mock.Anything, mock.Anything, mock.Anything).
		Return("https://example.com/quotation.xlsx", nil).Once()

	svc := newService(t, repo, storage)
	outcome, err := svc.Quote(context.Background(), service.QuoteRequest{
		Workbook: specWorkbook(t),
		Format:   service.FormatSpecColumn,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, outcome.Report.Summary.Succeeded)
	// 300*1 + 300*2 quantity-weighted.
	assert.True(t, decimal.NewFromInt(900).Equal(outcome.Report.Summary.TotalMonthly))
	assert.Equal(t, "https://example.com/quotation.xlsx", outcome.DownloadURL)
	repo.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestQuotationService_PersistenceFailureDoesNotLoseResult(t *testing.T) {
	repo := new(mocks.MockBatchRepository)
	repo.On("CreateBatch", mock.Anything, mock.Anything).
		Return(assert.AnError).Once()

	svc := newService(t, repo, nil)
	outcome, err := svc.Quote(context.Background(), service.QuoteRequest{
		Workbook: specWorkbook(t),
		Format:   service.FormatSpecColumn,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, outcome.Report.Summary.Succeeded)
	assert.Empty(t, outcome.DownloadURL)
}

func TestQuotationService_OneShotWithoutBackends(t *testing.T) {
	svc := newService(t, nil, nil)
	outcome, err := svc.Quote(context.Background(), service.QuoteRequest{
		Workbook: specWorkbook(t),
		Format:   service.FormatSpecColumn,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, outcome.Report.Summary.Total)
	assert.Empty(t, outcome.DownloadURL)
}

func TestQuotationService_UnknownFormat(t *testing.T) {
	svc := newService(t, nil, nil)
	_, err := svc.Quote(context.Background(), service.QuoteRequest{
		Workbook: specWorkbook(t),
		Format:   service.SourceFormat("yaml"),
	})
	assert.Error(t, err)
}
