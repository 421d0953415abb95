package parser

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/crednx/statement-engine/internal/dialect"
	"github.com/crednx/statement-engine/internal/models"
)

// balanceTolerance absorbs rounding noise in statement figures. The
// equation is previous balance + deposits - withdrawals = balance.
const balanceTolerance = 0.01

// isBroughtForward reports whether a row is an opening/brought-forward
// row: the mode says so outright, or the mode is empty and the narration
// carries the B/F marker. A row with some other non-empty mode that still
// mentions B/F in its narration is NOT an opening row; Validate flags it
// instead.
func isBroughtForward(mode, particulars string) bool {
	if mode == "B/F" {
		return true
	}
	return mode == "" && strings.Contains(particulars, "B/F")
}

func isAmbiguousBroughtForward(mode, particulars string) bool {
	return mode != "" && mode != "B/F" && strings.Contains(particulars, "B/F")
}

// Reconcile settles the debit/credit side of every transaction against
// the running balance. Transactions must already be in chronological
// order. The dialect selects the strategy:
//
//   - Corrective: the tokenizer guessed a side from narration keywords;
//     when the balance delta disagrees with the guess, the amount is
//     swapped to the other side.
//   - Classifying: the tokenizer extracted an undifferentiated amount;
//     both hypotheses (added, subtracted) are computed against the
//     observed balance and the closer one wins. Ambiguity never drops a
//     transaction.
func Reconcile(txns []models.TransactionRecord, d *dialect.Dialect, log zerolog.Logger) []models.TransactionRecord {
	if len(txns) == 0 {
		return txns
	}
	switch d.Reconcile {
	case dialect.ModeClassifying:
		return reconcileClassifying(txns, log)
	default:
		return reconcileCorrective(txns, log)
	}
}

func reconcileCorrective(txns []models.TransactionRecord, log zerolog.Logger) []models.TransactionRecord {
	for i := range txns {
		if i == 0 || isBroughtForward(txns[i].Mode, txns[i].Particulars) {
			continue
		}
		change := txns[i].Balance - txns[i-1].Balance

		amount := txns[i].Withdrawals
		if amount == 0 {
			amount = txns[i].Deposits
		}
		if amount == 0 {
			continue
		}

		switch {
		case change > 0 && txns[i].Deposits > 0:
			// Guess already agrees with the balance movement.
		case change < 0 && txns[i].Withdrawals > 0:
		case change > 0 && txns[i].Withdrawals > 0:
			txns[i].Withdrawals = 0
			txns[i].Deposits = math.Abs(amount)
			log.Debug().Int("index", i).Float64("amount", amount).Msg("reassigned debit to credit")
		case change < 0 && txns[i].Deposits > 0:
			txns[i].Deposits = 0
			txns[i].Withdrawals = math.Abs(amount)
			log.Debug().Int("index", i).Float64("amount", amount).Msg("reassigned credit to debit")
		}
	}
	return txns
}

func reconcileClassifying(txns []models.TransactionRecord, log zerolog.Logger) []models.TransactionRecord {
	previous := 0.0
	for i := range txns {
		if isBroughtForward(txns[i].Mode, txns[i].Particulars) {
			previous = txns[i].Balance
			txns[i].Deposits = 0
			txns[i].Withdrawals = 0
			continue
		}
		amount := txns[i].Deposits
		if amount == 0 {
			if txns[i].Balance != 0 {
				previous = txns[i].Balance
			}
			continue
		}

		next := txns[i].Balance
		creditDiff := math.Abs(previous + amount - next)
		debitDiff := math.Abs(previous - amount - next)
		if creditDiff <= debitDiff {
			txns[i].Deposits = amount
			txns[i].Withdrawals = 0
		} else {
			txns[i].Deposits = 0
			txns[i].Withdrawals = amount
		}
		if creditDiff > balanceTolerance && debitDiff > balanceTolerance {
			log.Debug().Int("index", i).
				Float64("creditDiff", creditDiff).
				Float64("debitDiff", debitDiff).
				Msg("neither balance hypothesis matches; kept the closer one")
		}
		previous = next
	}
	return txns
}

// Validate re-walks a reconciled sequence and reports every transaction
// whose balance equation error exceeds tolerance. It never mutates its
// input; running it twice yields identical reports.
func Validate(txns []models.TransactionRecord) []models.MismatchRecord {
	var mismatches []models.MismatchRecord
	previous := 0.0

	for i, tx := range txns {
		if i == 0 {
			// Opening balance is unknowable; the first row seeds it.
			previous = tx.Balance
			continue
		}
		if isBroughtForward(tx.Mode, tx.Particulars) {
			previous = tx.Balance
			continue
		}

		var note string
		if isAmbiguousBroughtForward(tx.Mode, tx.Particulars) {
			note = "narration mentions B/F but mode is " + tx.Mode + "; not treated as opening row"
		}

		expected := previous + tx.Deposits - tx.Withdrawals
		difference := math.Abs(expected - tx.Balance)
		if difference > balanceTolerance {
			mismatches = append(mismatches, models.MismatchRecord{
				TransactionIndex: i,
				Date:             tx.Date,
				ExpectedBalance:  expected,
				ActualBalance:    tx.Balance,
				Difference:       difference,
				Deposits:         tx.Deposits,
				Withdrawals:      tx.Withdrawals,
				PreviousBalance:  previous,
				Note:             note,
			})
		} else if note != "" {
			mismatches = append(mismatches, models.MismatchRecord{
				TransactionIndex: i,
				Date:             tx.Date,
				ExpectedBalance:  expected,
				ActualBalance:    tx.Balance,
				Deposits:         tx.Deposits,
				Withdrawals:      tx.Withdrawals,
				PreviousBalance:  previous,
				Note:             note,
			})
		}
		previous = tx.Balance
	}
	return mismatches
}

// FormatReport renders a console validation report for a reconciled
// transaction list.
func FormatReport(txns []models.TransactionRecord, mismatches []models.MismatchRecord, bankName string) string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "BALANCE VALIDATION REPORT - %s\n", bankName)
	fmt.Fprintf(&b, "%s\n", rule)

	if len(mismatches) == 0 {
		b.WriteString("BALANCE EQUATION VALIDATION: PASSED\n")
		b.WriteString("  All transactions satisfy: previous balance + deposits - withdrawals = balance\n")
		fmt.Fprintf(&b, "  Total transactions validated: %d\n", len(txns))
	} else {
		b.WriteString("BALANCE EQUATION VALIDATION: FAILED\n")
		fmt.Fprintf(&b, "  %d mismatches out of %d transactions\n\n", len(mismatches), len(txns))
		shown := mismatches
		if len(shown) > 10 {
			shown = shown[:10]
		}
		for n, m := range shown {
			fmt.Fprintf(&b, "  %d. Transaction #%d (%s)\n", n+1, m.TransactionIndex+1, m.Date)
			fmt.Fprintf(&b, "     Expected balance: %.2f\n", m.ExpectedBalance)
			fmt.Fprintf(&b, "     Actual balance:   %.2f\n", m.ActualBalance)
			fmt.Fprintf(&b, "     Difference:       %.2f\n", m.Difference)
			fmt.Fprintf(&b, "     Deposits:         %.2f\n", m.Deposits)
			fmt.Fprintf(&b, "     Withdrawals:      %.2f\n", m.Withdrawals)
			fmt.Fprintf(&b, "     Previous balance: %.2f\n", m.PreviousBalance)
			if m.Note != "" {
				fmt.Fprintf(&b, "     Note: %s\n", m.Note)
			}
			b.WriteString("\n")
		}
		if len(mismatches) > 10 {
			fmt.Fprintf(&b, "  ... and %d more mismatches\n", len(mismatches)-10)
		}
	}
	fmt.Fprintf(&b, "%s\n", rule)
	return b.String()
}
