package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SourceRecord is one row of input to the quotation pipeline: a free-form
// resource description plus whatever structured columns the source carried.
type SourceRecord struct {
	// Index is the record's position within its source, starting at 1.
	Index int `json:"index"`
	// Kind declares the record's modality. Only text is extractable today.
	Kind ContentKind `json:"kind"`
	// ProductName is the human-facing product label from the source, if any.
	ProductName string `json:"product_name,omitempty"`
	// Description is the free-form requirement text handed to interpretation.
	Description string `json:"description"`
	// Notes is optional free-text context from a notes column. It is
	// appended to the description before interpretation.
	Notes string `json:"notes,omitempty"`
	// Quantity is how many instances the row asks for. Sources that carry
	// no quantity column leave it at 1.
	Quantity int `json:"quantity"`
	// Hints carries structured spec columns when the source had them.
	Hints *SpecHints `json:"hints,omitempty"`
}

// InterpretText is the text interpretation and caching see: the
// description with any context notes folded in.
func (r SourceRecord) InterpretText() string {
	desc := strings.TrimSpace(r.Description)
	notes := strings.TrimSpace(r.Notes)
	switch {
	case notes == "":
		return desc
	case desc == "":
		return notes
	}
	return desc + " | " + notes
}

// SpecHints are structured CPU/memory/storage values read straight from
// source columns. When present they bypass interpretation entirely.
type SpecHints struct {
	CPUCores  int `json:"cpu_cores"`
	MemoryGiB int `json:"memory_gib"`
	StorageGB int `json:"storage_gb"`
}

// Complete reports whether the hints carry enough to skip interpretation.
// Storage may legitimately be zero; cpu and memory may not.
func (h *SpecHints) Complete() bool {
	return h != nil && h.CPUCores > 0 && h.MemoryGiB > 0
}

// ResourceRequirement is the normalized output of interpretation: the
// machine shape a record needs.
type ResourceRequirement struct {
	CPUCores  int          `json:"cpu_cores"`
	MemoryGiB int          `json:"memory_gib"`
	StorageGB int          `json:"storage_gb"`
	Workload  WorkloadType `json:"workload"`
	// RawInput preserves the text the requirement was interpreted from.
	RawInput string `json:"raw_input,omitempty"`
	// FromFallback marks requirements produced by the deterministic
	// extractor rather than the language model.
	FromFallback bool `json:"from_fallback,omitempty"`
}

// Validate checks that the requirement describes a purchasable shape.
func (r ResourceRequirement) Validate() error {
	if r.CPUCores <= 0 {
		return fmt.Errorf("requirement: cpu cores must be positive, got %d", r.CPUCores)
	}
	if r.MemoryGiB <= 0 {
		return fmt.Errorf("requirement: memory must be positive, got %d GiB", r.MemoryGiB)
	}
	if r.StorageGB < 0 {
		return fmt.Errorf("requirement: storage must be non-negative, got %d GB", r.StorageGB)
	}
	switch r.Workload {
	case WorkloadGeneral, WorkloadCompute, WorkloadMemoryIntensive:
	default:
		return fmt.Errorf("requirement: unknown workload type %q", r.Workload)
	}
	return nil
}

// SKUCandidate is one instance type returned by the recommendation service.
type SKUCandidate struct {
	InstanceType   string `json:"instance_type"`
	InstanceFamily string `json:"instance_family"`
	CPUCores       int    `json:"cpu_cores"`
	MemoryGiB      int    `json:"memory_gib"`
	ZoneID         string `json:"zone_id,omitempty"`
}

// PriceQuote is the monthly subscription price for a resolved instance.
type PriceQuote struct {
	// Monthly is the original (undiscounted) price for one instance for
	// one month, in the account currency.
	Monthly decimal.Decimal `json:"monthly"`
	// DiskCategory is the system/data disk category the price was quoted
	// with, derived from the instance generation.
	DiskCategory string `json:"disk_category"`
}

// QuoteResult is the full per-record outcome of a pipeline run.
type QuoteResult struct {
	Record      SourceRecord         `json:"record"`
	Stage       Stage                `json:"stage"`
	Requirement *ResourceRequirement `json:"requirement,omitempty"`
	SKU         *SKUCandidate        `json:"sku,omitempty"`
	Price       *PriceQuote          `json:"price,omitempty"`
	// FailReason is set only when Stage is failed or the record was skipped.
	FailReason string `json:"fail_reason,omitempty"`
}

// Succeeded reports whether the record made it all the way to a price.
func (q QuoteResult) Succeeded() bool {
	return q.Stage == StageDone
}

// LineTotal is Price.Monthly multiplied by the record quantity. Zero when
// the record never reached pricing.
func (q QuoteResult) LineTotal() decimal.Decimal {
	if q.Price == nil {
		return decimal.Zero
	}
	qty := q.Record.Quantity
	if qty < 1 {
		qty = 1
	}
	return q.Price.Monthly.Mul(decimal.NewFromInt(int64(qty)))
}

// BatchSummary aggregates a finished batch.
type BatchSummary struct {
	Total        int             `json:"total"`
	Succeeded    int             `json:"succeeded"`
	Failed       int             `json:"failed"`
	Skipped      int             `json:"skipped"`
	TotalMonthly decimal.Decimal `json:"total_monthly"`
	// AverageMonthly is TotalMonthly divided by Succeeded, zero when
	// nothing succeeded.
	AverageMonthly decimal.Decimal `json:"average_monthly"`
}

// BatchReport is the pipeline's output: every per-record result plus the
// aggregate summary.
type BatchReport struct {
	BatchID   uuid.UUID       `json:"batch_id"`
	Region    string          `json:"region"`
	Category  ProductCategory `json:"category"`
	StartedAt time.Time       `json:"started_at"`
	Duration  time.Duration   `json:"duration"`
	Results   []QuoteResult   `json:"results"`
	Summary   BatchSummary    `json:"summary"`
}

// Summarize recomputes the aggregate summary from Results.
func (b *BatchReport) Summarize() {
	var s BatchSummary
	s.Total = len(b.Results)
	for _, r := range b.Results {
		switch {
		case r.Succeeded():
			s.Succeeded++
			s.TotalMonthly = s.TotalMonthly.Add(r.LineTotal())
		case r.Stage == StageFailed && isSkip(r.FailReason):
			s.Skipped++
		default:
			s.Failed++
		}
	}
	if s.Succeeded > 0 {
		s.AverageMonthly = s.TotalMonthly.Div(decimal.NewFromInt(int64(s.Succeeded))).Round(2)
	}
	b.Summary = s
}

func isSkip(reason string) bool {
	return len(reason) >= len(skipPrefix) && reason[:len(skipPrefix)] == skipPrefix
}

const skipPrefix = "skipped:"
