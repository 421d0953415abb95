package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/crednx/statement-engine/internal/dialect"
)

// TokenKind labels what a single physical line of statement text is.
type TokenKind int

const (
	TokenNarration TokenKind = iota
	TokenPageBoundary
	TokenDate
	TokenAmount
	TokenReference
	TokenHeader
)

func (k TokenKind) String() string {
	switch k {
	case TokenPageBoundary:
		return "page-boundary"
	case TokenDate:
		return "date"
	case TokenAmount:
		return "amount"
	case TokenReference:
		return "reference"
	case TokenHeader:
		return "header"
	default:
		return "narration"
	}
}

// LineToken is the classification result for one line. Value is set only
// for amount tokens.
type LineToken struct {
	Kind  TokenKind
	Text  string
	Value float64
}

// Grouped amounts with either 3-digit (78,410.00) or 2-digit Indian
// lakh/crore grouping (1,71,908.86), one or two decimals, optional sign.
var amountPattern = regexp.MustCompile(`^-?\d+(?:,\d{2,3})*(?:\.\d{1,2})?$`)

// Pure digit runs and long uppercase alphanumeric ids (ICICN22025030316).
var (
	digitsOnlyPattern = regexp.MustCompile(`^\d+$`)
	alnumRefPattern   = regexp.MustCompile(`^[A-Z0-9]{10,}$`)
	refWithDate       = regexp.MustCompile(`^([A-Z0-9]{10,})\s+(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})$`)
)

// Classify labels a single line. Precedence when several patterns could
// match: page boundary, date, amount, reference, header label, narration.
func Classify(line string, d *dialect.Dialect) LineToken {
	line = strings.TrimSpace(line)

	if d.PageStart(line) != nil || d.IsPageEnd(line) {
		return LineToken{Kind: TokenPageBoundary, Text: line}
	}
	if d.IsDateOnly(line) {
		return LineToken{Kind: TokenDate, Text: line}
	}
	if v, ok := ParseAmount(line); ok {
		return LineToken{Kind: TokenAmount, Text: line, Value: v}
	}
	if IsReferenceID(line, d) {
		return LineToken{Kind: TokenReference, Text: line}
	}
	if d.IsHeaderLabel(line) {
		return LineToken{Kind: TokenHeader, Text: line}
	}
	return LineToken{Kind: TokenNarration, Text: line}
}

// ParseAmount reports whether line is a pure monetary amount and returns
// its value. Unformatted digit strings of length 5, 9, or 10+ are real
// reference numbers that merely look numeric, so they are rejected here
// and picked up by the reference rule instead.
func ParseAmount(line string) (float64, bool) {
	line = strings.TrimSpace(line)
	if line == "" || !amountPattern.MatchString(line) {
		return 0, false
	}
	if !strings.Contains(line, ",") && !strings.Contains(line, ".") {
		digits := strings.TrimPrefix(line, "-")
		if len(digits) == 5 || len(digits) == 9 || len(digits) >= 10 {
			return 0, false
		}
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(line, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// IsAmount reports whether line is a pure monetary amount.
func IsAmount(line string) bool {
	_, ok := ParseAmount(line)
	return ok
}

// IsReferenceID reports whether line is a bare cheque/transaction id:
// 4-12 digits with no separators and no embedded date, or a long
// uppercase alphanumeric id containing at least one letter.
func IsReferenceID(line string, d *dialect.Dialect) bool {
	line = strings.TrimSpace(line)
	if digitsOnlyPattern.MatchString(line) {
		return len(line) >= 4 && len(line) <= 12 && !d.ContainsDate(line)
	}
	if alnumRefPattern.MatchString(line) && strings.ContainsAny(line, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		return true
	}
	return false
}

// SplitReferenceDate splits a "REF DATE" line into its reference and
// value-date parts. Returns ok=false when the line is not that shape.
func SplitReferenceDate(line string) (ref, date string, ok bool) {
	m := refWithDate.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// NormalizeReference strips any date fragment fused into a reference
// token: the exact value date as a suffix or substring (including up to
// two stray leading digits the extraction glued onto it), a trailing
// date-shaped suffix, or a leading DD/MM/YY prefix. References never
// carry a date.
func NormalizeReference(ref, valueDate string, d *dialect.Dialect) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if valueDate != "" && strings.Contains(ref, valueDate) {
		fused := regexp.MustCompile(`\d{0,2}` + regexp.QuoteMeta(valueDate) + `$`)
		if fused.MatchString(ref) {
			ref = strings.TrimSpace(fused.ReplaceAllString(ref, ""))
		} else {
			ref = strings.TrimSpace(strings.ReplaceAll(ref, valueDate, ""))
		}
	}
	ref = strings.TrimSpace(trailingDatePattern.ReplaceAllString(ref, ""))
	if len(ref) >= 8 && d.DateAt(ref[:8]) != "" {
		ref = strings.TrimSpace(ref[8:])
	}
	return ref
}

var trailingDatePattern = regexp.MustCompile(`\s*\d{1,2}[/-]\d{1,2}[/-]\d{2,4}$`)
