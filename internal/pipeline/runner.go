package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cloudquote/internal/domain"
	"cloudquote/internal/interpret"
	"cloudquote/internal/port"
	"cloudquote/internal/pricing"
	"cloudquote/internal/resolve"
)

// Options configure one pipeline run.
type Options struct {
	Region string
	// Category is the single product category this run quotes.
	Category domain.ProductCategory
	// Workers bounds concurrency. 1 runs records sequentially.
	Workers int
}

// Runner drives records through interpret, resolve and price.
type Runner struct {
	interpreter interpret.Interpreter
	resolver    resolve.Resolver
	quoter      pricing.Quoter
	logger      *zap.Logger
	opts        Options
}

func NewRunner(i interpret.Interpreter, r resolve.Resolver, q pricing.Quoter, opts Options, logger *zap.Logger) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Category == "" {
		opts.Category = domain.CategoryECS
	}
	return &Runner{interpreter: i, resolver: r, quoter: q, logger: logger, opts: opts}
}

// Run processes every record of source against region (empty means the
// configured default). A failed record never aborts the batch: it lands in
// the report as failed and the run continues.
func (r *Runner) Run(ctx context.Context, source port.Source, region string) (*domain.BatchReport, error) {
	if region == "" {
		region = r.opts.Region
	}
	report := &domain.BatchReport{
		BatchID:   uuid.New(),
		Region:    region,
		Category:  r.opts.Category,
		StartedAt: time.Now(),
	}

	records := make([]domain.SourceRecord, 0, source.Count())
	for rec := range source.Stream() {
		records = append(records, rec)
	}
	report.Results = make([]domain.QuoteResult, len(records))

	if r.opts.Workers == 1 {
		for i, rec := range records {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("pipeline: run aborted: %w", err)
			}
			report.Results[i] = r.processRecord(ctx, rec, region)
		}
	} else {
		r.runParallel(ctx, records, report.Results, region)
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pipeline: run aborted: %w", err)
		}
	}

	report.Duration = time.Since(report.StartedAt)
	report.Summarize()
	r.logger.Info("batch finished",
		zap.String("batch_id", report.BatchID.String()),
		zap.Int("total", report.Summary.Total),
		zap.Int("succeeded", report.Summary.Succeeded),
		zap.Int("failed", report.Summary.Failed),
		zap.Int("skipped", report.Summary.Skipped),
		zap.Duration("elapsed", report.Duration))
	return report, nil
}

// runParallel fans records out over a bounded worker pool while keeping
// results in source order.
func (r *Runner) runParallel(ctx context.Context, records []domain.SourceRecord, results []domain.QuoteResult, region string) {
	sem := make(chan struct{}, r.opts.Workers)
	var wg sync.WaitGroup
	for i, rec := range records {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, rec domain.SourceRecord) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = r.processRecord(ctx, rec, region)
		}(i, rec)
	}
	wg.Wait()
}

func (r *Runner) processRecord(ctx context.Context, rec domain.SourceRecord, region string) domain.QuoteResult {
	result := domain.QuoteResult{Record: rec, Stage: domain.StagePending}

	// Category gate runs before any interpretation is spent on the record.
	if cat := classifyCategory(rec); cat != r.opts.Category {
		result.Stage = domain.StageFailed
		result.FailReason = fmt.Sprintf("skipped: record is %s, run quotes %s", cat, r.opts.Category)
		r.logger.Info("record skipped",
			zap.Int("record", rec.Index), zap.String("category", string(cat)))
		return result
	}

	req, err := r.interpreter.Interpret(ctx, rec)
	if err != nil {
		return failed(result, "interpret", err, r.logger)
	}
	result.Stage = domain.StageInterpreted
	result.Requirement = req

	sku, err := r.resolver.Resolve(ctx, region, *req)
	if err != nil {
		return failed(result, "resolve", err, r.logger)
	}
	result.Stage = domain.StageResolved
	result.SKU = sku

	price, err := r.quoter.Quote(ctx, region, *sku, req.StorageGB)
	if err != nil {
		return failed(result, "price", err, r.logger)
	}
	result.Stage = domain.StagePriced
	result.Price = price

	result.Stage = domain.StageDone
	return result
}

func classifyCategory(rec domain.SourceRecord) domain.ProductCategory {
	if interpret.IsPolarDBRecord(rec.ProductName, rec.Description) {
		return domain.CategoryPolarDB
	}
	return domain.CategoryECS
}

func failed(result domain.QuoteResult, stage string, err error, logger *zap.Logger) domain.QuoteResult {
	result.Stage = domain.StageFailed
	result.FailReason = fmt.Sprintf("%s: %v", stage, err)
	logger.Warn("record failed",
		zap.Int("record", result.Record.Index),
		zap.String("stage", stage),
		zap.Error(err))
	return result
}
