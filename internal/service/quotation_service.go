package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cloudquote/internal/domain"
	"cloudquote/internal/export"
	"cloudquote/internal/ingest"
	"cloudquote/internal/pipeline"
	"cloudquote/internal/port"
)

// SourceFormat selects how an uploaded workbook is read.
type SourceFormat string

const (
	FormatSpecColumn SourceFormat = "spec_column"
	FormatGrid       SourceFormat = "grid"
	FormatLLM        SourceFormat = "llm"
)

// QuoteRequest describes one quotation run over an uploaded workbook.
type QuoteRequest struct {
	Workbook io.Reader
	Sheet    string
	Format   SourceFormat
	// Region overrides the configured default when set.
	Region string
}

// QuoteOutcome is what a finished run hands back to the transport layer.
type QuoteOutcome struct {
	Report *domain.BatchReport
	// DownloadURL is a presigned link to the generated quotation
	// workbook, empty when object storage is not configured.
	DownloadURL string
}

// QuotationService runs quotation batches end to end and persists them.
type QuotationService interface {
	Quote(ctx context.Context, req QuoteRequest) (*QuoteOutcome, error)
	GetBatch(ctx context.Context, batchID uuid.UUID) (*domain.BatchReport, error)
	ListBatches(ctx context.Context, limit, offset int) ([]domain.BatchReport, error)
	// ExportBatch re-renders a stored batch as a workbook.
	ExportBatch(ctx context.Context, batchID uuid.UUID, w io.Writer) error
}

type quotationService struct {
	runner        *pipeline.Runner
	llm           port.ChatCompleter
	repo          port.BatchRepository
	storage       port.ObjectStorage
	logger        *zap.Logger
	defaultRegion string
	urlExpiry     int64
}

// NewQuotationService wires the pipeline to persistence and storage. repo
// and storage may be nil for one-shot CLI runs.
func NewQuotationService(
	runner *pipeline.Runner,
	llm port.ChatCompleter,
	repo port.BatchRepository,
	storage port.ObjectStorage,
	defaultRegion string,
	logger *zap.Logger,
) QuotationService {
	return &quotationService{
		runner:        runner,
		llm:           llm,
		repo:          repo,
		storage:       storage,
		logger:        logger,
		defaultRegion: defaultRegion,
		urlExpiry:     int64((24 * time.Hour).Seconds()),
	}
}

func (s *quotationService) Quote(ctx context.Context, req QuoteRequest) (*QuoteOutcome, error) {
	source, err := s.openSource(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("source loaded",
		zap.String("format", string(req.Format)),
		zap.Int("records", source.Count()))

	region := req.Region
	if region == "" {
		region = s.defaultRegion
	}
	report, err := s.runner.Run(ctx, source, region)
	if err != nil {
		return nil, fmt.Errorf("quotation: %w", err)
	}

	if err := s.persist(ctx, report); err != nil {
		// The quotation itself succeeded; a persistence failure should
		// not throw the result away.
		s.logger.Error("persisting batch failed",
			zap.String("batch_id", report.BatchID.String()), zap.Error(err))
	}

	outcome := &QuoteOutcome{Report: report}
	if s.storage != nil {
		url, err := s.uploadWorkbook(ctx, report)
		if err != nil {
			s.logger.Error("uploading workbook failed",
				zap.String("batch_id", report.BatchID.String()), zap.Error(err))
		} else {
			outcome.DownloadURL = url
		}
	}
	return outcome, nil
}

func (s *quotationService) openSource(ctx context.Context, req QuoteRequest) (port.Source, error) {
	switch req.Format {
	case FormatSpecColumn, "":
		return ingest.OpenSpecColumn(req.Workbook, req.Sheet)
	case FormatGrid:
		return ingest.OpenGrid(req.Workbook, req.Sheet)
	case FormatLLM:
		return ingest.OpenLLM(ctx, req.Workbook, req.Sheet, s.llm, s.logger)
	default:
		return nil, fmt.Errorf("quotation: unknown source format %q", req.Format)
	}
}

func (s *quotationService) persist(ctx context.Context, report *domain.BatchReport) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.CreateBatch(ctx, report); err != nil {
		return err
	}
	for _, result := range report.Results {
		if err := s.repo.SaveResult(ctx, report.BatchID, result); err != nil {
			return err
		}
	}
	status := domain.BatchStatusCompleted
	if report.Summary.Succeeded == 0 && report.Summary.Total > 0 {
		status = domain.BatchStatusFailed
	}
	return s.repo.FinishBatch(ctx, report, status)
}

func (s *quotationService) uploadWorkbook(ctx context.Context, report *domain.BatchReport) (string, error) {
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, report); err != nil {
		return "", err
	}
	key := fmt.Sprintf("quotations/%s/%s.xlsx",
		report.StartedAt.Format("2006-01-02"), report.BatchID)
	const contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if err := s.storage.Upload(ctx, key, &buf, contentType); err != nil {
		return "", err
	}
	return s.storage.PresignDownload(ctx, key, s.urlExpiry)
}

func (s *quotationService) GetBatch(ctx context.Context, batchID uuid.UUID) (*domain.BatchReport, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("quotation: no repository configured")
	}
	return s.repo.GetBatch(ctx, batchID)
}

func (s *quotationService) ListBatches(ctx context.Context, limit, offset int) ([]domain.BatchReport, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("quotation: no repository configured")
	}
	return s.repo.ListBatches(ctx, limit, offset)
}

func (s *quotationService) ExportBatch(ctx context.Context, batchID uuid.UUID, w io.Writer) error {
	report, err := s.GetBatch(ctx, batchID)
	if err != nil {
		return err
	}
	return export.WriteXLSX(w, report)
}
