// Package export renders generated budgets as XLSX workbooks.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/propono/docbudget/internal/llm"
)

// Service produces XLSX bytes for generated budgets.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportBudgetXLSX returns an XLSX workbook (as bytes) with one row per
// budget item plus a summary block.
func (s *Service) ExportBudgetXLSX(budget llm.BudgetResponse) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Budget"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// drop the default sheet so the workbook opens on Budget
	if index, _ := f.GetSheetIndex("Sheet1"); index != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	write(1, 1, budget.Title)
	write(1, 2, budget.Description)

	headers := []string{"Item", "Category", "Quantity", "Unit Price", "Total Price"}
	const headerRow = 4
	for i, h := range headers {
		write(i+1, headerRow, h)
	}

	row := headerRow + 1
	for _, item := range budget.Items {
		write(1, row, item.Description)
		write(2, row, item.Category)
		write(3, row, item.Quantity)
		write(4, row, item.UnitPrice)
		write(5, row, item.TotalPrice)
		row++
	}

	row++
	write(4, row, "Total")
	write(5, row, budget.TotalValue)
	row++
	write(4, row, "Estimated Time")
	write(5, row, budget.EstimatedTime)
	row++
	write(4, row, "Confidence")
	write(5, row, fmt.Sprintf("%.0f%%", budget.Confidence))

	// Widen the text columns
	_ = f.SetColWidth(sheet, "A", "A", 48)
	_ = f.SetColWidth(sheet, "B", "B", 22)
	_ = f.SetColWidth(sheet, "C", "E", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.budget.ok",
		"title", budget.Title,
		"items", len(budget.Items),
		"bytes", buf.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
