package parser

import (
	"strings"

	"github.com/crednx/statement-engine/internal/dialect"
	"github.com/crednx/statement-engine/internal/models"
)

// FilterSummary strips statement-summary and footer boilerplate that bled
// into a narration. The last transaction of a document has no following
// date line to bound its trailing collection, so end-of-statement blocks
// (summary tables, generation timestamps, signature text) can end up
// appended to it.
//
// An exact summary marker cuts the narration at its first occurrence.
// Otherwise, when a footer trigger phrase is present anywhere in the
// narration, the narration is truncated word by word at the first
// footer-indicator word.
func FilterSummary(txns []models.TransactionRecord, d *dialect.Dialect) []models.TransactionRecord {
	for i := range txns {
		txns[i].Particulars = cleanNarration(txns[i].Particulars, d)
	}
	return txns
}

func cleanNarration(narration string, d *dialect.Dialect) string {
	for _, marker := range d.SummaryMarkers {
		if idx := strings.Index(narration, marker); idx >= 0 {
			return strings.TrimSpace(narration[:idx])
		}
	}

	triggered := false
	for _, trigger := range d.FooterTriggers {
		if strings.Contains(narration, trigger) {
			triggered = true
			break
		}
	}
	if !triggered {
		return narration
	}

	var kept []string
	for _, word := range strings.Fields(narration) {
		if containsFooterWord(word, d) {
			break
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

func containsFooterWord(word string, d *dialect.Dialect) bool {
	for _, fw := range d.FooterWords {
		if strings.Contains(word, fw) {
			return true
		}
	}
	return false
}
