package ingest

import (
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"cloudquote/internal/domain"
	"cloudquote/internal/port"
)

// gridSource reads loosely structured capacity sheets: the header row sits
// somewhere in the middle of merged titles and legends, figure cells carry
// multiplier arithmetic like "500*2", and the sheet ends with total rows.
type gridSource struct {
	records []domain.SourceRecord
}

// OpenGrid scans the sheet for the first row that names both a CPU and a
// memory column, then reads every data row below it.
func OpenGrid(r io.Reader, sheet string) (port.Source, error) {
	rows, err := readSheet(r, sheet)
	if err != nil {
		return nil, err
	}

	headerIdx, cols, ok := locateGridHeader(rows)
	if !ok {
		return nil, fmt.Errorf("ingest: no row with cpu and memory columns found")
	}

	src := &gridSource{}
	index := 0
	for _, row := range rows[headerIdx+1:] {
		if isNoiseRow(row) {
			continue
		}
		cpu := evalCell(cellAt(row, cols.cpu))
		mem := evalCell(cellAt(row, cols.memory))
		if cpu <= 0 && mem <= 0 {
			continue
		}
		index++
		rec := domain.SourceRecord{
			Index:       index,
			Kind:        domain.KindText,
			ProductName: cellAt(row, cols.product),
			Description: gridDescription(row, cols),
			Quantity:    parseQuantity(cellAt(row, cols.quantity)),
		}
		if cpu > 0 && mem > 0 {
			rec.Hints = &domain.SpecHints{
				CPUCores:  cpu,
				MemoryGiB: mem,
				StorageGB: evalCell(cellAt(row, cols.storage)),
			}
		}
		src.records = append(src.records, rec)
	}
	return src, nil
}

func (s *gridSource) Count() int { return len(s.records) }

func (s *gridSource) Stream() iter.Seq[domain.SourceRecord] {
	return func(yield func(domain.SourceRecord) bool) {
		for _, rec := range s.records {
			if !yield(rec) {
				return
			}
		}
	}
}

// locateGridHeader accepts any row whose cells mention both CPU and 内存,
// however they are decorated.
func locateGridHeader(rows [][]string) (int, columnMap, bool) {
	for i, row := range rows {
		cols := columnMap{product: -1, desc: -1, quantity: -1, cpu: -1, memory: -1, storage: -1}
		for j, cell := range row {
			h := strings.ToLower(strings.TrimSpace(cell))
			switch {
			case cols.cpu < 0 && (strings.Contains(h, "cpu") || strings.Contains(h, "核")):
				cols.cpu = j
			case cols.memory < 0 && (strings.Contains(h, "内存") || strings.Contains(h, "memory")):
				cols.memory = j
			case cols.storage < 0 && (strings.Contains(h, "存储") || strings.Contains(h, "磁盘") || strings.Contains(h, "storage")):
				cols.storage = j
			case cols.quantity < 0 && (strings.Contains(h, "数量") || strings.Contains(h, "台数")):
				cols.quantity = j
			case cols.product < 0 && (strings.Contains(h, "名称") || strings.Contains(h, "产品") || strings.Contains(h, "用途")):
				cols.product = j
			}
		}
		if cols.cpu >= 0 && cols.memory >= 0 {
			return i, cols, true
		}
	}
	return 0, columnMap{}, false
}

func gridDescription(row []string, cols columnMap) string {
	parts := make([]string, 0, 3)
	if p := cellAt(row, cols.product); p != "" {
		parts = append(parts, p)
	}
	if c := cellAt(row, cols.cpu); c != "" {
		parts = append(parts, c+"C")
	}
	if m := cellAt(row, cols.memory); m != "" {
		parts = append(parts, m+"G")
	}
	return strings.Join(parts, " ")
}

// evalCell reads a figure that may carry multiplier arithmetic, so "500*2"
// evaluates to 1000. Anything unreadable is 0.
func evalCell(cell string) int {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0
	}
	product := 1
	any := false
	for _, part := range strings.Split(cell, "*") {
		n := parseFactor(part)
		if n <= 0 {
			return 0
		}
		product *= n
		any = true
	}
	if !any {
		return 0
	}
	return product
}

func parseFactor(s string) int {
	s = strings.TrimSpace(s)
	digits := leadingDigits(s)
	if digits == "" {
		return 0
	}
	f, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0
	}
	return int(f)
}
