package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"cloudquote/internal/domain"
)

// utf8BOM keeps Excel from misreading the Chinese product names.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV renders the batch with the same column layout as the workbook,
// for pipelines that post-process the quotation.
func WriteCSV(w io.Writer, report *domain.BatchReport) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("export: write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(quotationHeader); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}

	for _, result := range report.Results {
		row := make([]string, len(quotationHeader))
		for i, cell := range resultCells(report.Category, result) {
			row[i] = cellString(cell)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: write record %d: %w", result.Record.Index, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: flush: %w", err)
	}
	return nil
}

func cellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
