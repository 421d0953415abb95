package parser

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/crednx/statement-engine/internal/dialect"
	"github.com/crednx/statement-engine/internal/models"
)

// transactionLookahead bounds how far ExpectDate peeks to confirm that a
// date token really begins a transaction.
const transactionLookahead = 4

// tokenizer reconstructs transactions from one page's lines via a state
// machine: ExpectDate, CollectNarration, ExpectReferenceOrValueDate,
// CollectAmounts, CollectTrailing, Emit. After Emit it restarts at the
// next unconsumed date token.
type tokenizer struct {
	d     *dialect.Dialect
	lines []string
	page  int
	log   zerolog.Logger
}

// TokenizePage reconstructs all transactions on one page. startOrder is
// the document-wide order index of the first transaction emitted here.
func TokenizePage(page models.PageSection, d *dialect.Dialect, startOrder int, log zerolog.Logger) []models.TransactionRecord {
	t := &tokenizer{d: d, page: page.Number, log: log}
	for _, raw := range page.Lines {
		t.lines = append(t.lines, strings.TrimSpace(raw))
	}

	var txns []models.TransactionRecord
	i := 0
	for i < len(t.lines) {
		line := t.lines[i]
		if line == "" || t.d.DateAt(line) == "" || !t.startsTransaction(i) {
			i++
			continue
		}
		txn, next := t.parseTransaction(i)
		if txn == nil {
			// UnparsableTransaction: recover by skipping one line.
			i++
			continue
		}
		txn.Page = t.page
		txn.OriginalOrder = startOrder + len(txns)
		txns = append(txns, *txn)
		i = next
	}
	t.log.Debug().Int("page", t.page).Int("transactions", len(txns)).Msg("tokenized page")
	return txns
}

// startsTransaction confirms a date at position i begins a transaction
// rather than being a stray value-date on its own line. The date must
// carry inline narration or be followed, within the lookahead window, by
// a reference, a long narration line, or an amount.
func (t *tokenizer) startsTransaction(i int) bool {
	line := t.lines[i]
	date := t.d.DateAt(line)
	if len(strings.TrimSpace(line[len(date):])) > 2 {
		return true
	}
	for j := i + 1; j < len(t.lines) && j <= i+transactionLookahead; j++ {
		next := t.lines[j]
		if next == "" {
			continue
		}
		if IsReferenceID(next, t.d) || IsAmount(next) {
			return true
		}
		if len(next) > 10 && !t.d.IsDateOnly(next) {
			return true
		}
	}
	return false
}

// parseTransaction runs one state-machine pass starting at the date line
// at start. It returns the record and the next unconsumed position, or
// (nil, 0) when no amounts were found before the next transaction.
func (t *tokenizer) parseTransaction(start int) (*models.TransactionRecord, int) {
	line := t.lines[start]
	date := t.d.DateAt(line)

	var narration []string
	if rest := strings.TrimSpace(line[len(date):]); rest != "" {
		narration = append(narration, rest)
	}

	i := start + 1
	var ref, valueDate string

	// CollectNarration: accumulate free text until a reference token
	// (or, for dialects without a reference column, the first amount).
	i, narration, ref, valueDate = t.collectNarration(i, narration)

	// ExpectReferenceOrValueDate: a lone value date may follow the
	// reference; default to the transaction date when absent.
	if ref != "" && valueDate == "" {
		i, valueDate = t.expectValueDate(i)
	}
	if valueDate == "" {
		valueDate = date
	}

	// CollectAmounts: consume amount lines until the dialect's column
	// count is satisfied. Interleaved free text is kept as trailing
	// narration; bare transaction ids are skipped.
	var amounts []float64
	var trailing []string
	i, amounts, trailing = t.collectAmounts(i, trailing)

	// CollectTrailing: remaining non-date lines before the next
	// transaction become additional narration. This is where a page
	// trailer absorbed at end-of-page lands, for the merger to find.
	i, trailing = t.collectTrailing(i, trailing)

	if len(amounts) == 0 {
		return nil, 0
	}

	particulars := strings.TrimSpace(strings.Join(narration, " "))
	if len(trailing) > 0 {
		particulars = strings.TrimSpace(particulars + " " + strings.Join(trailing, " "))
	}
	if particulars == "" {
		particulars = "Transaction"
	}

	txn := &models.TransactionRecord{
		Date:        date,
		Mode:        t.d.DetectMode(particulars),
		Particulars: particulars,
		Reference:   NormalizeReference(ref, valueDate, t.d),
	}
	t.assignAmounts(txn, amounts)
	return txn, i
}

func (t *tokenizer) collectNarration(i int, narration []string) (int, []string, string, string) {
	var ref, valueDate string
	for i < len(t.lines) {
		line := t.lines[i]
		if line == "" {
			i++
			continue
		}
		if r, vd, ok := SplitReferenceDate(line); ok && t.d.HasReference {
			ref, valueDate = r, vd
			i++
			break
		}
		tok := Classify(line, t.d)
		switch tok.Kind {
		case TokenReference:
			if t.d.HasReference {
				ref = tok.Text
				i++
				return i, narration, ref, valueDate
			}
			// Bare transaction id in a dialect without a reference
			// column; not narration, not an amount.
			i++
		case TokenAmount:
			return i, narration, ref, valueDate
		case TokenHeader:
			i++
		case TokenPageBoundary:
			if t.d.IsPageEnd(line) && t.d.PageStart(line) == nil {
				// Page trailer mid-collection; the rest of the
				// section belongs to this page, keep going.
				i++
				continue
			}
			return i, narration, ref, valueDate
		case TokenDate:
			// A lone date here is a stray value-date line.
			if !t.d.HasReference {
				return i, narration, ref, valueDate
			}
			i++
		default:
			if dt := t.d.DateAt(line); dt != "" && len(line) > len(dt)+2 {
				// Wrapped line starting with a value date.
				narration = append(narration, strings.TrimSpace(line[len(dt):]))
			} else {
				narration = append(narration, line)
			}
			i++
		}
	}
	return i, narration, ref, valueDate
}

func (t *tokenizer) expectValueDate(i int) (int, string) {
	for i < len(t.lines) {
		line := t.lines[i]
		if line == "" {
			i++
			continue
		}
		if t.d.IsDateOnly(line) {
			return i + 1, line
		}
		if _, vd, ok := SplitReferenceDate(line); ok {
			return i + 1, vd
		}
		if IsReferenceID(line, t.d) {
			// Extra reference numbers between the primary reference
			// and the value date.
			i++
			continue
		}
		break
	}
	return i, ""
}

func (t *tokenizer) collectAmounts(i int, trailing []string) (int, []float64, []string) {
	var amounts []float64
	for i < len(t.lines) && len(amounts) < t.d.AmountColumns {
		line := t.lines[i]
		if line == "" {
			i++
			continue
		}
		if v, ok := ParseAmount(line); ok {
			amounts = append(amounts, v)
			i++
			continue
		}
		if t.d.DateAt(line) != "" {
			break
		}
		if !t.d.HasReference && IsReferenceID(line, t.d) {
			i++
			continue
		}
		if t.d.PageStart(line) != nil && !t.d.IsPageEnd(line) {
			break
		}
		trailing = append(trailing, line)
		i++
	}
	return i, amounts, trailing
}

func (t *tokenizer) collectTrailing(i int, trailing []string) (int, []string) {
	for i < len(t.lines) {
		line := t.lines[i]
		if line == "" {
			i++
			continue
		}
		if t.d.DateAt(line) != "" {
			break
		}
		if IsAmount(line) {
			// A stray amount after the expected columns; consumed but
			// never narration.
			i++
			continue
		}
		trailing = append(trailing, line)
		i++
	}
	return i, trailing
}

// assignAmounts distributes the collected amount column values onto the
// record. The debit/credit split made here is provisional; the
// balance-equation reconciler has the final word.
func (t *tokenizer) assignAmounts(txn *models.TransactionRecord, amounts []float64) {
	bf := isBroughtForward(txn.Mode, txn.Particulars)

	switch {
	case t.d.AmountColumns == 3 && len(amounts) == 3:
		txn.Deposits = amounts[0]
		txn.Withdrawals = amounts[1]
		txn.Balance = amounts[2]
	case len(amounts) >= 2:
		amount := amounts[0]
		txn.Balance = amounts[1]
		if bf {
			// Opening rows carry no movement.
			return
		}
		negative := amount < 0
		if negative {
			// A negative first amount is a reversal; its side is
			// settled by the reconciler like any other row.
			amount = -amount
		}
		if t.d.Reconcile == dialect.ModeCorrective && t.d.SuggestsDebit(txn.Particulars) && !negative {
			txn.Withdrawals = amount
		} else {
			txn.Deposits = amount
		}
	case len(amounts) == 1:
		if bf || t.d.Reconcile == dialect.ModeCorrective {
			// A single figure on an opening row, or in a
			// reference-columned layout, is the running balance.
			txn.Balance = amounts[0]
		} else {
			// Undifferentiated movement; classified later.
			txn.Deposits = amounts[0]
		}
	}
}
