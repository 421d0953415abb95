package dialect

import (
	"fmt"
	"regexp"
	"strings"
)

// ReconcileMode selects how the balance-equation reconciler treats the
// amounts the tokenizer produced.
type ReconcileMode string

const (
	// ModeCorrective means the tokenizer already guessed a debit/credit
	// split from narration keywords; the reconciler swaps the side when
	// the balance delta disagrees with the guess.
	ModeCorrective ReconcileMode = "corrective"
	// ModeClassifying means the tokenizer could only extract an
	// undifferentiated amount; the reconciler tests both hypotheses
	// against the observed balance and picks the closer one.
	ModeClassifying ReconcileMode = "classifying"
)

// Descriptor is the immutable per-institution configuration. Adding a bank
// means adding one descriptor value, not a new parser type.
type Descriptor struct {
	// Key identifies the dialect in the registry ("hdfc", "icici").
	Key string `yaml:"key"`
	// BankName is the human-readable institution name.
	BankName string `yaml:"bankName"`
	// Indicators are substrings whose presence validates that raw text
	// belongs to this institution (checked case-insensitively).
	Indicators []string `yaml:"indicators"`
	// DatePatterns are anchored regular expressions for this bank's
	// date shapes, most specific first.
	DatePatterns []string `yaml:"datePatterns"`
	// PageStartPattern matches the line that opens a page section and
	// captures the page number as group 1.
	PageStartPattern string `yaml:"pageStartPattern"`
	// PageEndPattern matches the per-page trailer line. It stays inside
	// its section and acts as the boundary sentinel the continuation
	// merger looks for inside narration.
	PageEndPattern string `yaml:"pageEndPattern"`
	// HeaderLabels are the exact column header lines of the transaction
	// table.
	HeaderLabels []string `yaml:"headerLabels"`
	// ModeKeywords are the short category codes that can appear in a
	// narration (UPI, NEFT, ...).
	ModeKeywords []string `yaml:"modeKeywords"`
	// DisplayModes, when set, restricts the emitted mode column to these
	// phrases; narrations matching none get a blank mode.
	DisplayModes []string `yaml:"displayModes"`
	// DebitKeywords seed the corrective reconciler: a narration
	// containing one is first guessed to be a withdrawal.
	DebitKeywords []string `yaml:"debitKeywords"`
	// AmountColumns is how many consecutive amount lines complete a
	// transaction: 2 = amount+balance, 3 = deposit+withdrawal+balance.
	AmountColumns int `yaml:"amountColumns"`
	// HasReference is true when the layout carries a cheque/transaction
	// reference between narration and amounts.
	HasReference bool `yaml:"hasReference"`
	// Reconcile selects corrective or classifying mode.
	Reconcile ReconcileMode `yaml:"reconcile"`
	// SummaryMarkers cut narration at their first exact occurrence.
	SummaryMarkers []string `yaml:"summaryMarkers"`
	// FooterTriggers mark a narration as contaminated by footer
	// boilerplate; FooterWords is where the truncation then happens.
	FooterTriggers []string `yaml:"footerTriggers"`
	FooterWords    []string `yaml:"footerWords"`
}

// Dialect is a compiled descriptor ready for classification.
type Dialect struct {
	Descriptor

	dates     []*regexp.Regexp
	pageStart *regexp.Regexp
	pageEnd   *regexp.Regexp
}

// Compile validates a descriptor and compiles its patterns.
func Compile(desc Descriptor) (*Dialect, error) {
	if desc.Key == "" {
		return nil, fmt.Errorf("dialect descriptor missing key")
	}
	if desc.AmountColumns < 1 || desc.AmountColumns > 3 {
		return nil, fmt.Errorf("dialect %q: amountColumns must be 1..3, got %d", desc.Key, desc.AmountColumns)
	}
	switch desc.Reconcile {
	case ModeCorrective, ModeClassifying:
	default:
		return nil, fmt.Errorf("dialect %q: unknown reconcile mode %q", desc.Key, desc.Reconcile)
	}

	d := &Dialect{Descriptor: desc}
	for _, pat := range desc.DatePatterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("dialect %q: bad date pattern %q: %w", desc.Key, pat, err)
		}
		d.dates = append(d.dates, re)
	}
	if desc.PageStartPattern != "" {
		re, err := regexp.Compile(desc.PageStartPattern)
		if err != nil {
			return nil, fmt.Errorf("dialect %q: bad page start pattern: %w", desc.Key, err)
		}
		d.pageStart = re
	}
	if desc.PageEndPattern != "" {
		re, err := regexp.Compile(desc.PageEndPattern)
		if err != nil {
			return nil, fmt.Errorf("dialect %q: bad page end pattern: %w", desc.Key, err)
		}
		d.pageEnd = re
	}
	return d, nil
}

// MustCompile is Compile for the built-in descriptors.
func MustCompile(desc Descriptor) *Dialect {
	d, err := Compile(desc)
	if err != nil {
		panic(err)
	}
	return d
}

// Matches reports whether raw text carries any of this dialect's
// institution indicators. It is the cheap pre-parse validation predicate.
func (d *Dialect) Matches(text string) bool {
	upper := strings.ToUpper(text)
	for _, ind := range d.Indicators {
		if strings.Contains(upper, strings.ToUpper(ind)) {
			return true
		}
	}
	return false
}

// DateAt returns the date token found at the start of line, or "".
func (d *Dialect) DateAt(line string) string {
	for _, re := range d.dates {
		loc := re.FindStringIndex(line)
		if loc != nil && loc[0] == 0 {
			return line[loc[0]:loc[1]]
		}
	}
	return ""
}

// IsDateOnly reports whether the whole line is a single date token.
func (d *Dialect) IsDateOnly(line string) bool {
	tok := d.DateAt(line)
	return tok != "" && strings.TrimSpace(line) == tok
}

// ContainsDate reports whether a date token appears anywhere in s.
func (d *Dialect) ContainsDate(s string) bool {
	for _, re := range d.dates {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// FindDate returns the first date token found anywhere in s, or "".
func (d *Dialect) FindDate(s string) string {
	for _, re := range d.dates {
		if m := re.FindString(s); m != "" {
			return m
		}
	}
	return ""
}

// StripDates removes every date token from s.
func (d *Dialect) StripDates(s string) string {
	for _, re := range d.dates {
		s = re.ReplaceAllString(s, "")
	}
	return strings.Join(strings.Fields(s), " ")
}

// PageStart returns the page-start submatch (full line, page number), or nil.
func (d *Dialect) PageStart(line string) []string {
	if d.pageStart == nil {
		return nil
	}
	return d.pageStart.FindStringSubmatch(line)
}

// IsPageEnd reports whether line is this dialect's page trailer.
func (d *Dialect) IsPageEnd(line string) bool {
	return d.pageEnd != nil && d.pageEnd.MatchString(line)
}

// PageEndIn finds a page trailer embedded in s and returns the matched
// text and the captured page number text, or ("", "").
func (d *Dialect) PageEndIn(s string) (string, string) {
	if d.pageEnd == nil {
		return "", ""
	}
	m := d.pageEnd.FindStringSubmatch(s)
	if m == nil {
		return "", ""
	}
	if len(m) > 1 {
		return m[0], m[1]
	}
	return m[0], ""
}

// StripPageEnd removes every embedded page trailer from s.
func (d *Dialect) StripPageEnd(s string) string {
	if d.pageEnd == nil {
		return s
	}
	s = d.pageEnd.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// IsHeaderLabel reports whether line is one of the table column headers.
func (d *Dialect) IsHeaderLabel(line string) bool {
	for _, h := range d.HeaderLabels {
		if line == h {
			return true
		}
	}
	return false
}

// HasModePrefix reports whether line starts with one of the mode keywords.
func (d *Dialect) HasModePrefix(line string) bool {
	upper := strings.ToUpper(line)
	for _, kw := range d.ModeKeywords {
		if strings.HasPrefix(upper, strings.ToUpper(kw)) {
			return true
		}
	}
	return false
}

// DetectMode returns the mode code to emit for a narration.
// When DisplayModes is set only those phrases qualify; otherwise the
// first mode keyword contained in the narration wins.
func (d *Dialect) DetectMode(narration string) string {
	upper := strings.ToUpper(narration)
	if len(d.DisplayModes) > 0 {
		for _, m := range d.DisplayModes {
			if strings.Contains(upper, strings.ToUpper(m)) {
				return m
			}
		}
		return ""
	}
	for _, kw := range d.ModeKeywords {
		if strings.Contains(upper, strings.ToUpper(kw)) {
			return kw
		}
	}
	return ""
}

// SuggestsDebit reports whether a narration contains one of the
// dialect's debit keywords.
func (d *Dialect) SuggestsDebit(narration string) bool {
	lower := strings.ToLower(narration)
	for _, kw := range d.DebitKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
