package ingest

import (
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"cloudquote/internal/domain"
	"cloudquote/internal/port"
)

// specColumnSource reads workbooks whose header row names the columns
// explicitly (product name, description, quantity, cpu, memory, storage).
type specColumnSource struct {
	records []domain.SourceRecord
}

// Header synonyms, matched case-insensitively against trimmed cell text.
var (
	productHeaders  = []string{"产品名称", "产品", "product", "product name"}
	descHeaders     = []string{"描述", "需求", "需求描述", "配置", "description", "requirement"}
	notesHeaders    = []string{"备注", "说明", "补充说明", "notes", "note", "remark", "remarks"}
	quantityHeaders = []string{"数量", "quantity", "qty", "台数"}
	cpuHeaders      = []string{"cpu", "cpu(core)", "cpu(核)", "核数", "vcpu"}
	memoryHeaders   = []string{"内存", "内存(g)", "memory", "memory(g)", "mem"}
	storageHeaders  = []string{"存储", "存储(g)", "storage", "storage(g)", "磁盘"}
)

type columnMap struct {
	product, desc, notes, quantity, cpu, memory, storage int
}

// OpenSpecColumn parses a column-labelled workbook eagerly. The reader must
// hold a complete xlsx file.
func OpenSpecColumn(r io.Reader, sheet string) (port.Source, error) {
	rows, err := readSheet(r, sheet)
	if err != nil {
		return nil, err
	}

	headerIdx, cols, ok := locateSpecHeader(rows)
	if !ok {
		return nil, fmt.Errorf("ingest: no header row with description column found")
	}

	src := &specColumnSource{}
	index := 0
	for _, row := range rows[headerIdx+1:] {
		if isNoiseRow(row) {
			continue
		}
		desc := cellAt(row, cols.desc)
		product := cellAt(row, cols.product)
		if desc == "" && product == "" {
			continue
		}
		index++
		rec := domain.SourceRecord{
			Index:       index,
			Kind:        domain.KindText,
			ProductName: product,
			Description: desc,
			Notes:       cellAt(row, cols.notes),
			Quantity:    parseQuantity(cellAt(row, cols.quantity)),
		}
		if hints := parseHints(row, cols); hints != nil {
			rec.Hints = hints
		}
		src.records = append(src.records, rec)
	}
	return src, nil
}

func (s *specColumnSource) Count() int { return len(s.records) }

func (s *specColumnSource) Stream() iter.Seq[domain.SourceRecord] {
	return func(yield func(domain.SourceRecord) bool) {
		for _, rec := range s.records {
			if !yield(rec) {
				return
			}
		}
	}
}

func locateSpecHeader(rows [][]string) (int, columnMap, bool) {
	for i, row := range rows {
		cols := columnMap{product: -1, desc: -1, notes: -1, quantity: -1, cpu: -1, memory: -1, storage: -1}
		for j, cell := range row {
			h := strings.ToLower(strings.TrimSpace(cell))
			switch {
			case cols.desc < 0 && matchesHeader(h, descHeaders):
				cols.desc = j
			case cols.product < 0 && matchesHeader(h, productHeaders):
				cols.product = j
			case cols.notes < 0 && matchesHeader(h, notesHeaders):
				cols.notes = j
			case cols.quantity < 0 && matchesHeader(h, quantityHeaders):
				cols.quantity = j
			case cols.cpu < 0 && matchesHeader(h, cpuHeaders):
				cols.cpu = j
			case cols.memory < 0 && matchesHeader(h, memoryHeaders):
				cols.memory = j
			case cols.storage < 0 && matchesHeader(h, storageHeaders):
				cols.storage = j
			}
		}
		if cols.desc >= 0 {
			return i, cols, true
		}
	}
	return 0, columnMap{}, false
}

func matchesHeader(cell string, synonyms []string) bool {
	for _, s := range synonyms {
		if cell == s {
			return true
		}
	}
	return false
}

// parseHints builds spec hints only when the row carries usable cpu and
// memory figures. Partial figures are left for interpretation.
func parseHints(row []string, cols columnMap) *domain.SpecHints {
	if cols.cpu < 0 || cols.memory < 0 {
		return nil
	}
	cpu := parseCellInt(cellAt(row, cols.cpu))
	mem := parseCellInt(cellAt(row, cols.memory))
	if cpu <= 0 || mem <= 0 {
		return nil
	}
	hints := &domain.SpecHints{CPUCores: cpu, MemoryGiB: mem}
	if cols.storage >= 0 {
		hints.StorageGB = parseCellInt(cellAt(row, cols.storage))
	}
	return hints
}

func parseQuantity(cell string) int {
	if n := parseCellInt(cell); n > 0 {
		return n
	}
	return 1
}

// parseCellInt reads an integer out of a cell, tolerating unit suffixes
// like "8核" or "16G" and float renderings like "8.0".
func parseCellInt(cell string) int {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0
	}
	digits := leadingDigits(cell)
	if digits == "" {
		return 0
	}
	if f, err := strconv.ParseFloat(digits, 64); err == nil {
		return int(f)
	}
	return 0
}

func leadingDigits(s string) string {
	end := 0
	seenDot := false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			end++
			continue
		}
		break
	}
	return s[:end]
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// readSheet loads one sheet (the first when sheet is empty) as string rows.
func readSheet(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("ingest: read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// isNoiseRow drops empty rows and trailing totals.
func isNoiseRow(row []string) bool {
	joined := strings.TrimSpace(strings.Join(row, ""))
	if joined == "" {
		return true
	}
	return strings.Contains(joined, "总计") || strings.Contains(joined, "合计")
}
