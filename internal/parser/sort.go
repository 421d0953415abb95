package parser

import (
	"sort"
	"strconv"
	"strings"

	"github.com/crednx/statement-engine/internal/models"
)

// Two-digit years pivot at 50: 00-49 are 2000s, 50-99 are 1900s.
const yearPivot = 50

type dateKey struct {
	year, month, day int
}

// parseDateKey normalizes a DD/MM/YY, DD/MM/YYYY, DD-MM-YY or DD-MM-YYYY
// date into a comparable key. Unparseable or empty dates sort last.
func parseDateKey(date string) dateKey {
	last := dateKey{year: 9999, month: 12, day: 31}

	date = strings.TrimSpace(date)
	sep := "/"
	if !strings.Contains(date, "/") {
		sep = "-"
	}
	parts := strings.Split(date, sep)
	if len(parts) != 3 {
		return last
	}

	day, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	month, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	year, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err1 != nil || err2 != nil || err3 != nil {
		return last
	}
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return last
	}
	if year < 100 {
		if year < yearPivot {
			year += 2000
		} else {
			year += 1900
		}
	}
	return dateKey{year: year, month: month, day: day}
}

func (k dateKey) less(o dateKey) bool {
	if k.year != o.year {
		return k.year < o.year
	}
	if k.month != o.month {
		return k.month < o.month
	}
	return k.day < o.day
}

// SortChronological orders transactions by date. Transactions sharing a
// date keep their source order via the original-order index, so the sort
// result is deterministic regardless of how pages were tokenized.
func SortChronological(txns []models.TransactionRecord) []models.TransactionRecord {
	sort.SliceStable(txns, func(i, j int) bool {
		ki, kj := parseDateKey(txns[i].Date), parseDateKey(txns[j].Date)
		if ki != kj {
			return ki.less(kj)
		}
		return txns[i].OriginalOrder < txns[j].OriginalOrder
	})
	return txns
}
