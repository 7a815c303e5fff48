package interchange

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"fintrack/internal/backend"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

// SheetName is the fixed sheet/table name of every tabular export.
const SheetName = "Transactions"

// ExportExcel writes the full dataset to an XLSX workbook at path. The
// workbook holds a single sheet named "Transactions" with the five
// fixed columns; the date column carries date-typed cells rather than
// free text.
func ExportExcel(ctx context.Context, l backend.Ledger, path string, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentInterchange)
	}
	ts, err := l.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	for i, h := range core.Columns {
		cell := fmt.Sprintf("%c1", 'A'+i)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	dateFmt := "dd-mm-yyyy"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return fmt.Errorf("create date style: %w", err)
	}

	for idx, t := range ts {
		row := idx + 2
		if err := f.SetCellValue(SheetName, fmt.Sprintf("A%d", row), t.ID); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		if err := f.SetCellValue(SheetName, fmt.Sprintf("B%d", row), t.Date.Time); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		if err := f.SetCellValue(SheetName, fmt.Sprintf("C%d", row), t.Amount.InexactFloat64()); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		if err := f.SetCellValue(SheetName, fmt.Sprintf("D%d", row), string(t.Category)); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		if err := f.SetCellValue(SheetName, fmt.Sprintf("E%d", row), t.Description); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
	}
	if len(ts) > 0 {
		if err := f.SetCellStyle(SheetName, "B2", fmt.Sprintf("B%d", len(ts)+1), dateStyle); err != nil {
			return fmt.Errorf("style date column: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}

	logger.Info("exported xlsx",
		log.FieldOperation, log.OpExport,
		log.FieldPath, path,
		log.FieldSheet, SheetName,
		log.FieldCount, len(ts))
	return nil
}
