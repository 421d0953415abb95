package parser

import (
	"strconv"
	"strings"

	"github.com/crednx/statement-engine/internal/dialect"
	"github.com/crednx/statement-engine/internal/models"
)

// Continuation text must be a short prose fragment; anything longer is a
// full narration line that belongs to its own transaction.
const maxContinuationLen = 30

// MergeContinuations reattaches narration fragments that a page break cut
// away from their transaction. A transaction qualifies when its narration
// still contains the dialect's page-end sentinel: the tokenizer only
// absorbs that trailer when narration collection ran into the physical end
// of a page. The sentinel names the page that ended, so the continuation
// is looked up at the top of the following page.
//
// The sentinel text is always stripped from the narration, whether or not
// continuation text was found. Running the merger again on its own output
// is a no-op since no narration retains a sentinel afterwards.
func MergeContinuations(txns []models.TransactionRecord, sections []models.PageSection, d *dialect.Dialect) []models.TransactionRecord {
	for i := range txns {
		matched, pageText := d.PageEndIn(txns[i].Particulars)
		if matched == "" {
			continue
		}

		cleaned := d.StripPageEnd(txns[i].Particulars)
		if pageNum, err := strconv.Atoi(pageText); err == nil {
			if next := SectionByNumber(sections, pageNum+1); next != nil {
				if cont := continuationText(next.Lines, d); cont != "" {
					cleaned = strings.TrimSpace(cleaned + " " + cont)
				}
			}
		}
		txns[i].Particulars = cleaned
	}
	return txns
}

// continuationText inspects the first two non-empty lines of a page for a
// narration fragment. The criteria are deliberately strict: false merges
// corrupt a neighboring transaction, while a missed merge only shortens
// one narration.
func continuationText(lines []string, d *dialect.Dialect) string {
	var fragments []string
	seen := 0
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if d.PageStart(line) != nil {
			// The section-heading marker itself.
			continue
		}
		if seen >= 2 {
			break
		}
		seen++
		if isContinuationFragment(line, d) {
			fragments = append(fragments, line)
		} else {
			// The first real transaction line ends the window.
			break
		}
	}
	return strings.Join(fragments, " ")
}

func isContinuationFragment(line string, d *dialect.Dialect) bool {
	if len(line) > maxContinuationLen {
		return false
	}
	if d.ContainsDate(line) || d.HasModePrefix(line) || d.IsHeaderLabel(line) {
		return false
	}
	if IsAmount(line) || IsReferenceID(line, d) {
		return false
	}
	// Payment-identifier fragments (VPA handles) are structured data cut
	// mid-token, not prose; merging them misplaces the identifier.
	if strings.Contains(line, "@") {
		return false
	}
	return true
}
