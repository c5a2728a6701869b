package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"cloudquote/internal/domain"
	"cloudquote/internal/port"
)

type batchRepository struct {
	db *sqlx.DB
}

// NewBatchRepository builds the postgres-backed batch store.
func NewBatchRepository(db *sqlx.DB) port.BatchRepository {
	return &batchRepository{db: db}
}

type batchRow struct {
	ID             uuid.UUID       `db:"id"`
	Region         string          `db:"region"`
	Category       string          `db:"category"`
	Status         string          `db:"status"`
	StartedAt      time.Time       `db:"started_at"`
	DurationMS     int64           `db:"duration_ms"`
	Total          int             `db:"total"`
	Succeeded      int             `db:"succeeded"`
	Failed         int             `db:"failed"`
	Skipped        int             `db:"skipped"`
	TotalMonthly   decimal.Decimal `db:"total_monthly"`
	AverageMonthly decimal.Decimal `db:"average_monthly"`
}

type resultRow struct {
	BatchID        uuid.UUID           `db:"batch_id"`
	RecordIndex    int                 `db:"record_index"`
	ProductName    string              `db:"product_name"`
	Description    string              `db:"description"`
	Notes          string              `db:"notes"`
	Quantity       int                 `db:"quantity"`
	Stage          string              `db:"stage"`
	CPUCores       sql.NullInt32       `db:"cpu_cores"`
	MemoryGiB      sql.NullInt32       `db:"memory_gib"`
	StorageGB      sql.NullInt32       `db:"storage_gb"`
	Workload       sql.NullString      `db:"workload"`
	InstanceType   sql.NullString      `db:"instance_type"`
	InstanceFamily sql.NullString      `db:"instance_family"`
	MonthlyPrice   decimal.NullDecimal `db:"monthly_price"`
	DiskCategory   sql.NullString      `db:"disk_category"`
	FailReason     sql.NullString      `db:"fail_reason"`
}

func (r *batchRepository) CreateBatch(ctx context.Context, report *domain.BatchReport) error {
	const q = `
		INSERT INTO quote_batches (id, region, category, status, started_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, q,
		report.BatchID, report.Region, string(report.Category),
		string(domain.BatchStatusRunning), report.StartedAt)
	if err != nil {
		return fmt.Errorf("create batch %s: %w", report.BatchID, err)
	}
	return nil
}

func (r *batchRepository) FinishBatch(ctx context.Context, report *domain.BatchReport, status domain.BatchStatus) error {
	const q = `
		UPDATE quote_batches
		SET status = $2, duration_ms = $3, total = $4, succeeded = $5,
		    failed = $6, skipped = $7, total_monthly = $8, average_monthly = $9
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q,
		report.BatchID, string(status), report.Duration.Milliseconds(),
		report.Summary.Total, report.Summary.Succeeded, report.Summary.Failed,
		report.Summary.Skipped, report.Summary.TotalMonthly, report.Summary.AverageMonthly)
	if err != nil {
		return fmt.Errorf("finish batch %s: %w", report.BatchID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish batch %s: %w", report.BatchID, domain.ErrNotFound)
	}
	return nil
}

func (r *batchRepository) SaveResult(ctx context.Context, batchID uuid.UUID, result domain.QuoteResult) error {
	const q = `
		INSERT INTO quote_results (
			batch_id, record_index, product_name, description, notes, quantity, stage,
			cpu_cores, memory_gib, storage_gb, workload,
			instance_type, instance_family, monthly_price, disk_category, fail_reason
		) VALUES (
			:batch_id, :record_index, :product_name, :description, :notes, :quantity, :stage,
			:cpu_cores, :memory_gib, :storage_gb, :workload,
			:instance_type, :instance_family, :monthly_price, :disk_category, :fail_reason
		)`
	row := resultRow{
		BatchID:     batchID,
		RecordIndex: result.Record.Index,
		ProductName: result.Record.ProductName,
		Description: result.Record.Description,
		Notes:       result.Record.Notes,
		Quantity:    result.Record.Quantity,
		Stage:       string(result.Stage),
	}
	if req := result.Requirement; req != nil {
		row.CPUCores = sql.NullInt32{Int32: int32(req.CPUCores), Valid: true}
		row.MemoryGiB = sql.NullInt32{Int32: int32(req.MemoryGiB), Valid: true}
		row.StorageGB = sql.NullInt32{Int32: int32(req.StorageGB), Valid: true}
		row.Workload = sql.NullString{String: string(req.Workload), Valid: true}
	}
	if sku := result.SKU; sku != nil {
		row.InstanceType = sql.NullString{String: sku.InstanceType, Valid: true}
		row.InstanceFamily = sql.NullString{String: sku.InstanceFamily, Valid: true}
	}
	if price := result.Price; price != nil {
		row.MonthlyPrice = decimal.NullDecimal{Decimal: price.Monthly, Valid: true}
		row.DiskCategory = sql.NullString{String: price.DiskCategory, Valid: true}
	}
	if result.FailReason != "" {
		row.FailReason = sql.NullString{String: result.FailReason, Valid: true}
	}

	if _, err := r.db.NamedExecContext(ctx, q, row); err != nil {
		return fmt.Errorf("save result %d of batch %s: %w", result.Record.Index, batchID, err)
	}
	return nil
}

func (r *batchRepository) GetBatch(ctx context.Context, batchID uuid.UUID) (*domain.BatchReport, error) {
	var batch batchRow
	err := r.db.GetContext(ctx, &batch,
		`SELECT id, region, category, status, started_at, duration_ms,
		        total, succeeded, failed, skipped, total_monthly, average_monthly
		 FROM quote_batches WHERE id = $1`, batchID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("batch %s: %w", batchID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get batch %s: %w", batchID, err)
	}

	var rows []resultRow
	err = r.db.SelectContext(ctx, &rows,
		`SELECT batch_id, record_index, product_name, description, notes, quantity, stage,
		        cpu_cores, memory_gib, storage_gb, workload,
		        instance_type, instance_family, monthly_price, disk_category, fail_reason
		 FROM quote_results WHERE batch_id = $1 ORDER BY record_index`, batchID)
	if err != nil {
		return nil, fmt.Errorf("get results of batch %s: %w", batchID, err)
	}

	report := batch.toDomain()
	report.Results = make([]domain.QuoteResult, 0, len(rows))
	for _, row := range rows {
		report.Results = append(report.Results, row.toDomain())
	}
	return report, nil
}

func (r *batchRepository) ListBatches(ctx context.Context, limit, offset int) ([]domain.BatchReport, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var rows []batchRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, region, category, status, started_at, duration_ms,
		        total, succeeded, failed, skipped, total_monthly, average_monthly
		 FROM quote_batches ORDER BY started_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}

	reports := make([]domain.BatchReport, 0, len(rows))
	for _, row := range rows {
		reports = append(reports, *row.toDomain())
	}
	return reports, nil
}

func (b batchRow) toDomain() *domain.BatchReport {
	return &domain.BatchReport{
		BatchID:   b.ID,
		Region:    b.Region,
		Category:  domain.ProductCategory(b.Category),
		StartedAt: b.StartedAt,
		Duration:  time.Duration(b.DurationMS) * time.Millisecond,
		Summary: domain.BatchSummary{
			Total:          b.Total,
			Succeeded:      b.Succeeded,
			Failed:         b.Failed,
			Skipped:        b.Skipped,
			TotalMonthly:   b.TotalMonthly,
			AverageMonthly: b.AverageMonthly,
		},
	}
}

func (r resultRow) toDomain() domain.QuoteResult {
	result := domain.QuoteResult{
		Record: domain.SourceRecord{
			Index:       r.RecordIndex,
			Kind:        domain.KindText,
			ProductName: r.ProductName,
			Description: r.Description,
			Notes:       r.Notes,
			Quantity:    r.Quantity,
		},
		Stage:      domain.Stage(r.Stage),
		FailReason: r.FailReason.String,
	}
	if r.CPUCores.Valid {
		result.Requirement = &domain.ResourceRequirement{
			CPUCores:  int(r.CPUCores.Int32),
			MemoryGiB: int(r.MemoryGiB.Int32),
			StorageGB: int(r.StorageGB.Int32),
			Workload:  domain.WorkloadType(r.Workload.String),
		}
	}
	if r.InstanceType.Valid {
		result.SKU = &domain.SKUCandidate{
			InstanceType:   r.InstanceType.String,
			InstanceFamily: r.InstanceFamily.String,
		}
	}
	if r.MonthlyPrice.Valid {
		result.Price = &domain.PriceQuote{
			Monthly:      r.MonthlyPrice.Decimal,
			DiskCategory: r.DiskCategory.String,
		}
	}
	return result
}
