package writer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/crednx/statement-engine/internal/models"
)

const (
	transactionsSheet = "Transactions"
	mismatchesSheet   = "Balance Mismatches"
)

// XLSXWriter writes transactions to an Excel workbook. Balance
// mismatches, when present, land on a second sheet.
type XLSXWriter struct{}

// WriteToFile writes the result to an XLSX file at path.
func (w *XLSXWriter) WriteToFile(path string, result *models.Result) error {
	f, err := w.build(result)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %q: %w", path, err)
	}
	return nil
}

// Write renders the result as an XLSX workbook to out.
func (w *XLSXWriter) Write(out io.Writer, result *models.Result) error {
	f, err := w.build(result)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (w *XLSXWriter) build(result *models.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", transactionsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := writeRow(f, transactionsSheet, 1, toCells(columnHeader)); err != nil {
		f.Close()
		return nil, err
	}
	for i, txn := range result.Transactions {
		cells := []any{
			txn.Date,
			txn.Mode,
			txn.Particulars,
			zeroBlank(txn.Deposits),
			zeroBlank(txn.Withdrawals),
			txn.Balance,
			txn.Reference,
		}
		if err := writeRow(f, transactionsSheet, i+2, cells); err != nil {
			f.Close()
			return nil, err
		}
	}

	if len(result.Mismatches) > 0 {
		if _, err := f.NewSheet(mismatchesSheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to add mismatch sheet: %w", err)
		}
		header := []any{
			"Transaction", "Date", "Expected Balance", "Actual Balance",
			"Difference", "Deposits", "Withdrawals", "Previous Balance", "Note",
		}
		if err := writeRow(f, mismatchesSheet, 1, header); err != nil {
			f.Close()
			return nil, err
		}
		for i, m := range result.Mismatches {
			cells := []any{
				m.TransactionIndex + 1,
				m.Date,
				m.ExpectedBalance,
				m.ActualBalance,
				m.Difference,
				m.Deposits,
				m.Withdrawals,
				m.PreviousBalance,
				m.Note,
			}
			if err := writeRow(f, mismatchesSheet, i+2, cells); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []any) error {
	for col, v := range cells {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("bad cell coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}
	return nil
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

// zeroBlank keeps the unused side of a transaction empty in the sheet.
func zeroBlank(v float64) any {
	if v == 0 {
		return ""
	}
	return v
}
