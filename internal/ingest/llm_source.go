package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"strings"

	"go.uber.org/zap"

	"cloudquote/internal/domain"
	"cloudquote/internal/port"
)

// llmSource handles sheets too irregular for column mapping: the whole
// sheet is serialized into annotated text and a language model extracts
// the server rows.
type llmSource struct {
	records []domain.SourceRecord
}

const extractionPrompt = `You are an assistant that extracts server requirement rows from a spreadsheet dump.

Each input line reads "Row N: [col 0]value | [col 1]value | ...". Find every row that describes a server or compute resource and respond with a single JSON array and nothing else:
[{"product_name": "<string>", "description": "<string>", "quantity": <int>, "cpu_cores": <int>, "memory_gib": <int>, "storage_gb": <int>}]

Rules:
- cpu_cores and memory_gib must be positive integers taken from the row. Skip header rows, legends and total rows.
- quantity defaults to 1, storage_gb to 0 when the row names none.
- description repeats the row's requirement text as-is.
- Do not wrap the JSON in markdown fences or commentary.`

type extractedRow struct {
	ProductName string `json:"product_name"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	CPUCores    int    `json:"cpu_cores"`
	MemoryGiB   int    `json:"memory_gib"`
	StorageGB   int    `json:"storage_gb"`
}

// OpenLLM reads the sheet, hands its serialized form to the model and
// keeps every extracted row that carries a usable shape. Rows the model
// returns without positive cpu and memory are dropped with a warning.
func OpenLLM(ctx context.Context, r io.Reader, sheet string, llm port.ChatCompleter, logger *zap.Logger) (port.Source, error) {
	rows, err := readSheet(r, sheet)
	if err != nil {
		return nil, err
	}

	reply, err := llm.Complete(ctx, extractionPrompt, serializeRows(rows))
	if err != nil {
		return nil, fmt.Errorf("ingest: sheet extraction: %w", err)
	}

	var extracted []extractedRow
	if err := json.Unmarshal([]byte(extractJSONArray(reply)), &extracted); err != nil {
		return nil, fmt.Errorf("ingest: parse extraction reply: %w", err)
	}

	src := &llmSource{}
	index := 0
	for _, row := range extracted {
		if row.CPUCores <= 0 || row.MemoryGiB <= 0 {
			logger.Warn("dropping extracted row without usable shape",
				zap.String("product", row.ProductName),
				zap.Int("cpu", row.CPUCores),
				zap.Int("memory", row.MemoryGiB))
			continue
		}
		index++
		qty := row.Quantity
		if qty < 1 {
			qty = 1
		}
		src.records = append(src.records, domain.SourceRecord{
			Index:       index,
			Kind:        domain.KindText,
			ProductName: row.ProductName,
			Description: row.Description,
			Quantity:    qty,
			Hints: &domain.SpecHints{
				CPUCores:  row.CPUCores,
				MemoryGiB: row.MemoryGiB,
				StorageGB: row.StorageGB,
			},
		})
	}
	return src, nil
}

func (s *llmSource) Count() int { return len(s.records) }

func (s *llmSource) Stream() iter.Seq[domain.SourceRecord] {
	return func(yield func(domain.SourceRecord) bool) {
		for _, rec := range s.records {
			if !yield(rec) {
				return
			}
		}
	}
}

// serializeRows renders the sheet as one annotated line per non-empty row.
func serializeRows(rows [][]string) string {
	var b strings.Builder
	for i, row := range rows {
		cells := make([]string, 0, len(row))
		for j, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			cells = append(cells, fmt.Sprintf("[col %d]%s", j, cell))
		}
		if len(cells) == 0 {
			continue
		}
		fmt.Fprintf(&b, "Row %d: %s\n", i+1, strings.Join(cells, " | "))
	}
	return b.String()
}

func extractJSONArray(s string) string {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}
