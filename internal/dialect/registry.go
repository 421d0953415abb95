package dialect

import (
	"fmt"
	"sort"
)

// HDFC statements interleave narration, reference and amounts across
// physical lines between "--- Page N ---" and "Page No .: N" markers.
var hdfcDescriptor = Descriptor{
	Key:      "hdfc",
	BankName: "HDFC Bank",
	Indicators: []string{
		"HDFC BANK", "HDFC Bank", "HDFC",
	},
	DatePatterns: []string{
		`\d{2}/\d{2}/\d{4}`,
		`\d{2}/\d{2}/\d{2}`,
		`\d{1,2}/\d{1,2}/\d{4}`,
		`\d{1,2}/\d{1,2}/\d{2}`,
	},
	PageStartPattern: `^--- Page (\d+) ---$`,
	PageEndPattern:   `Page No \.: (\d+)`,
	HeaderLabels: []string{
		"Date", "Narration", "Chq./Ref.No.", "Value Dt",
		"Withdrawal Amt.", "Deposit Amt.", "Closing Balance",
	},
	ModeKeywords: []string{
		"UPI", "NEFT", "IMPS", "ATM", "POS", "TRANSFER",
		"PAYMENT", "CHEQUE", "ECS", "DD", "RTGS",
	},
	DebitKeywords: []string{
		"upi", "payment", "withdrawal", "debit", "atm", "neft", "imps",
	},
	AmountColumns: 2,
	HasReference:  true,
	Reconcile:     ModeCorrective,
	SummaryMarkers: []string{
		"STATEMENT SUMMARY",
	},
	FooterTriggers: []string{
		"Generated On:", "Generated By:", "Requesting Branch Code:",
		"This is a computer generated statement",
	},
	FooterWords: []string{
		"Generated", "Requesting", "This", "computer",
		"generated", "statement", "signature",
	},
}

// ICICI statements stack the six column headers on their own lines and
// close each page with a "Page N of M" trailer. Transactions carry one or
// two amount lines and the debit/credit side is only recoverable from the
// balance equation.
var iciciDescriptor = Descriptor{
	Key:      "icici",
	BankName: "ICICI Bank",
	Indicators: []string{
		"ICICI BANK", "ICICI Bank", "ICICI",
		"DATE\nMODE**\nPARTICULARS\nDEPOSITS\nWITHDRAWALS\nBALANCE",
	},
	DatePatterns: []string{
		`\d{2}-\d{2}-\d{4}`,
		`\d{1,2}-\d{1,2}-\d{4}`,
	},
	PageStartPattern: `^Page (\d+) of \d+$`,
	PageEndPattern:   `Page (\d+) of \d+`,
	HeaderLabels: []string{
		"DATE", "MODE**", "PARTICULARS", "DEPOSITS", "WITHDRAWALS", "BALANCE",
	},
	ModeKeywords: []string{
		"B/F", "NEFT", "IMPS", "UPI", "ATM", "POS", "TRANSFER",
		"PAYMENT", "CHEQUE", "ECS", "DD", "RTGS",
	},
	DisplayModes: []string{
		"MOBILE BANKING", "ICICI ATM", "BANK CHARGES",
		"CMS TRANSACTION", "CREDIT CARD",
	},
	AmountColumns: 2,
	HasReference:  false,
	Reconcile:     ModeClassifying,
	SummaryMarkers: []string{
		"STATEMENT SUMMARY",
	},
	FooterTriggers: []string{
		"This is a computer generated statement",
	},
	FooterWords: []string{
		"This", "computer", "generated", "statement", "signature",
	},
}

// Registry maps institution keys to compiled dialects. It is built once
// and passed explicitly into the pipeline; there is no global lookup.
type Registry struct {
	dialects map[string]*Dialect
}

// NewRegistry returns a registry with the built-in dialects.
func NewRegistry() *Registry {
	return &Registry{dialects: map[string]*Dialect{
		hdfcDescriptor.Key:  MustCompile(hdfcDescriptor),
		iciciDescriptor.Key: MustCompile(iciciDescriptor),
	}}
}

// Get returns the dialect registered under key.
func (r *Registry) Get(key string) (*Dialect, error) {
	d, ok := r.dialects[key]
	if !ok {
		return nil, fmt.Errorf("unknown dialect %q (supported: %v)", key, r.Keys())
	}
	return d, nil
}

// Add registers a compiled dialect, replacing any existing entry with
// the same key.
func (r *Registry) Add(d *Dialect) {
	r.dialects[d.Key] = d
}

// Keys returns the registered dialect keys in stable order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.dialects))
	for k := range r.dialects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Detect inspects raw text for institution indicators and returns the
// matching dialect. Built-in dialects are tried before file-loaded ones,
// in key order, so detection is deterministic.
func (r *Registry) Detect(text string) (*Dialect, error) {
	for _, key := range r.Keys() {
		d := r.dialects[key]
		if d.Matches(text) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("could not detect statement dialect; specify one of %v explicitly", r.Keys())
}
