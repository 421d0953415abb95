// Package writer renders parse results to the supported output formats:
// CSV, JSON, and XLSX.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/crednx/statement-engine/internal/models"
)

// columnHeader is the fixed output column set shared by all formats.
var columnHeader = []string{
	"Date", "Mode", "Particulars", "Deposits", "Withdrawals", "Balance", "Reference",
}

// CSVWriter writes transactions to CSV.
type CSVWriter struct {
	// IncludeMetadata adds bank and validation comment rows ahead of the
	// column header.
	IncludeMetadata bool
}

// WriteToFile writes the result to a CSV file at path.
func (w *CSVWriter) WriteToFile(path string, result *models.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, result)
}

// Write renders the result as CSV to out.
func (w *CSVWriter) Write(out io.Writer, result *models.Result) error {
	cw := csv.NewWriter(out)
	defer cw.Flush()

	if w.IncludeMetadata {
		cw.Write([]string{"# Bank", result.BankName})
		cw.Write([]string{"# Transactions", strconv.Itoa(len(result.Transactions))})
		cw.Write([]string{"# Balance Mismatches", strconv.Itoa(len(result.Mismatches))})
	}

	if err := cw.Write(columnHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range result.Transactions {
		row := []string{
			txn.Date,
			txn.Mode,
			txn.Particulars,
			formatAmount(txn.Deposits),
			formatAmount(txn.Withdrawals),
			strconv.FormatFloat(txn.Balance, 'f', 2, 64),
			txn.Reference,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return cw.Error()
}

// formatAmount leaves the zero side of a transaction blank, matching how
// statements print their deposit/withdrawal columns.
func formatAmount(amount float64) string {
	if amount == 0 {
		return ""
	}
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
