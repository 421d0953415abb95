// Package parser turns raw statement text into reconciled transaction
// records. The pipeline is a fixed sequence of pure transformations:
// page segmentation, per-page tokenization, cross-page continuation
// merging, summary/footer stripping, chronological ordering, and
// balance-equation reconciliation. Each stage consumes the previous
// stage's output; there is no shared state, so concurrent Parse calls
// on one Engine are safe.
package parser

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/crednx/statement-engine/internal/dialect"
	"github.com/crednx/statement-engine/internal/models"
)

// ErrDialectMismatch is returned when statement text carries none of the
// selected dialect's institution indicators. It is the pipeline's only
// hard failure; everything downstream degrades row by row instead.
var ErrDialectMismatch = errors.New("statement does not match dialect")

// Engine runs the parsing pipeline for any registered dialect.
type Engine struct {
	log zerolog.Logger
}

// NewEngine returns an engine logging through the given logger.
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{log: log}
}

// Validate reports whether the text plausibly belongs to the dialect's
// institution, without parsing it.
func (e *Engine) Validate(text string, d *dialect.Dialect) bool {
	return d.Matches(text)
}

// Parse runs the full pipeline on raw statement text. A dialect mismatch
// is the only error; malformed individual transactions are skipped and
// balance inconsistencies are reported in the result's mismatch list
// rather than failing the parse.
func (e *Engine) Parse(text string, d *dialect.Dialect) (*models.Result, error) {
	if !d.Matches(text) {
		return &models.Result{
			Dialect:  d.Key,
			BankName: d.BankName,
			Success:  false,
			Error:    fmt.Sprintf("statement does not appear to be from %s", d.BankName),
		}, fmt.Errorf("%w: no %s indicators found", ErrDialectMismatch, d.BankName)
	}

	sections := SplitPages(text, d)
	e.log.Debug().Str("dialect", d.Key).Int("pages", len(sections)).Msg("segmented statement")

	var txns []models.TransactionRecord
	for _, section := range sections {
		txns = append(txns, TokenizePage(section, d, len(txns), e.log)...)
	}

	txns = MergeContinuations(txns, sections, d)
	txns = FilterSummary(txns, d)
	txns = SortChronological(txns)
	txns = Reconcile(txns, d, e.log)
	mismatches := Validate(txns)

	result := &models.Result{
		Dialect:      d.Key,
		BankName:     d.BankName,
		Success:      len(txns) > 0,
		Transactions: txns,
		Mismatches:   mismatches,
	}
	if !result.Success {
		result.Error = "no transactions found in statement"
	}

	e.log.Info().
		Str("dialect", d.Key).
		Int("transactions", len(txns)).
		Int("mismatches", len(mismatches)).
		Msg("parsed statement")
	return result, nil
}
