package parser

import (
	"testing"

	"github.com/crednx/statement-engine/internal/models"
)

func TestFilterSummaryMarker(t *testing.T) {
	d := hdfcDialect(t)

	txns := []models.TransactionRecord{
		{Particulars: "NEFT-ACME SALARY STATEMENT SUMMARY Opening Balance 1,000.00"},
	}
	filtered := FilterSummary(txns, d)

	want := "NEFT-ACME SALARY"
	if filtered[0].Particulars != want {
		t.Errorf("got %q, want %q", filtered[0].Particulars, want)
	}
}

func TestFilterSummaryFooterWords(t *testing.T) {
	d := hdfcDialect(t)

	txns := []models.TransactionRecord{
		{Particulars: "UPI-COFFEE SHOP Generated On: 01/04/2025 by system"},
	}
	filtered := FilterSummary(txns, d)

	want := "UPI-COFFEE SHOP"
	if filtered[0].Particulars != want {
		t.Errorf("got %q, want %q", filtered[0].Particulars, want)
	}
}

func TestFilterSummaryLeavesCleanNarration(t *testing.T) {
	d := hdfcDialect(t)

	// "statement" appears as a plain word but no footer trigger phrase is
	// present, so nothing is cut.
	txns := []models.TransactionRecord{
		{Particulars: "UPI-JOHN DOE PAYMENT"},
		{Particulars: "NEFT-STATEMENT PRINTING SERVICES"},
	}
	filtered := FilterSummary(txns, d)

	if filtered[0].Particulars != "UPI-JOHN DOE PAYMENT" {
		t.Errorf("got %q", filtered[0].Particulars)
	}
	if filtered[1].Particulars != "NEFT-STATEMENT PRINTING SERVICES" {
		t.Errorf("got %q", filtered[1].Particulars)
	}
}
