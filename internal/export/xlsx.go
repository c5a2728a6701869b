package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"cloudquote/internal/domain"
)

// quotationHeader is the fixed column layout of the quotation workbook.
// The discount columns are left blank for the sales side to fill in.
var quotationHeader = []string{
	"Server Category",
	"Product Name",
	"Quantity",
	"CPU(core)",
	"Memory(G)",
	"Storage(G)",
	"Instance Type",
	"Unit Price",
	"Discount",
	"Discounted Total",
}

const quotationSheet = "Quotation"

// WriteXLSX renders the batch as a quotation workbook. Failed and skipped
// records appear with their failure reason in the instance type column so
// nothing silently drops out of the document.
func WriteXLSX(w io.Writer, report *domain.BatchReport) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(quotationSheet)
	if err != nil {
		return fmt.Errorf("export: create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("export: drop default sheet: %w", err)
	}

	if err := writeRow(f, 1, headerCells()); err != nil {
		return err
	}

	rowNum := 2
	for _, result := range report.Results {
		if err := writeRow(f, rowNum, resultCells(report.Category, result)); err != nil {
			return err
		}
		rowNum++
	}

	// Summary block below the data rows.
	rowNum++
	summary := [][]any{
		{"Total Records", report.Summary.Total},
		{"Succeeded", report.Summary.Succeeded},
		{"Failed", report.Summary.Failed},
		{"Skipped", report.Summary.Skipped},
		{"Total Monthly", report.Summary.TotalMonthly.StringFixed(2)},
		{"Average Monthly", report.Summary.AverageMonthly.StringFixed(2)},
	}
	for _, cells := range summary {
		if err := writeRow(f, rowNum, cells); err != nil {
			return err
		}
		rowNum++
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func headerCells() []any {
	cells := make([]any, len(quotationHeader))
	for i, h := range quotationHeader {
		cells[i] = h
	}
	return cells
}

func resultCells(category domain.ProductCategory, result domain.QuoteResult) []any {
	cells := make([]any, len(quotationHeader))
	cells[0] = string(category)
	cells[1] = result.Record.ProductName
	cells[2] = result.Record.Quantity

	if req := result.Requirement; req != nil {
		cells[3] = req.CPUCores
		cells[4] = req.MemoryGiB
		cells[5] = req.StorageGB
	}
	switch {
	case result.Succeeded():
		cells[6] = result.SKU.InstanceType
		cells[7] = result.Price.Monthly.StringFixed(2)
	default:
		cells[6] = result.FailReason
	}
	// Discount and Discounted Total stay blank.
	return cells
}

func writeRow(f *excelize.File, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("export: cell name for row %d: %w", row, err)
	}
	if err := f.SetSheetRow(quotationSheet, cell, &cells); err != nil {
		return fmt.Errorf("export: write row %d: %w", row, err)
	}
	return nil
}
