package parser

import (
	"testing"

	"github.com/crednx/statement-engine/internal/dialect"
)

func hdfcDialect(t *testing.T) *dialect.Dialect {
	t.Helper()
	d, err := dialect.NewRegistry().Get("hdfc")
	if err != nil {
		t.Fatalf("hdfc dialect: %v", err)
	}
	return d
}

func iciciDialect(t *testing.T) *dialect.Dialect {
	t.Helper()
	d, err := dialect.NewRegistry().Get("icici")
	if err != nil {
		t.Fatalf("icici dialect: %v", err)
	}
	return d
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{"25.99", 25.99, true},
		{"1,234.56", 1234.56, true},
		{"78,410.00", 78410.00, true},
		{"1,71,908.86", 171908.86, true}, // lakh grouping
		{"-500.00", -500.00, true},
		{"0.00", 0.00, true},
		{"1000", 1000, true},
		{" 150.00 ", 150.00, true},
		{"", 0, false},
		{"UPI-JOHN", 0, false},
		{"12345", 0, false},      // 5 unformatted digits: reference
		{"123456789", 0, false},  // 9 unformatted digits: reference
		{"1234567890", 0, false}, // 10+ unformatted digits: reference
		{"15/01/2024", 0, false},
		{"1,2345.00", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseAmount(%q): ok=%v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.expected {
				t.Errorf("ParseAmount(%q): got %f, want %f", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsReferenceID(t *testing.T) {
	d := hdfcDialect(t)

	tests := []struct {
		input    string
		expected bool
	}{
		{"1234567890", true},
		{"1234", true},
		{"123456789012", true},
		{"123", false},           // too short
		{"1234567890123", false}, // too long for a bare digit id
		{"ICICN22025030316", true},
		{"0001234567", true},
		{"UPI-JOHN DOE", false},
		{"15/01/2024", false},
		{"1,234.56", false},
		{"1234567890123456", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsReferenceID(tt.input, d); got != tt.expected {
				t.Errorf("IsReferenceID(%q): got %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestClassifyPrecedence(t *testing.T) {
	d := hdfcDialect(t)

	tests := []struct {
		input    string
		expected TokenKind
	}{
		{"--- Page 1 ---", TokenPageBoundary},
		{"Page No .: 3", TokenPageBoundary},
		{"01/03/25", TokenDate},
		{"1,234.56", TokenAmount},
		{"1234567890", TokenReference},
		{"Narration", TokenHeader},
		{"Closing Balance", TokenHeader},
		{"UPI-COFFEE SHOP PAYMENT", TokenNarration},
		{"", TokenNarration},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := Classify(tt.input, d)
			if tok.Kind != tt.expected {
				t.Errorf("Classify(%q): got %v, want %v", tt.input, tok.Kind, tt.expected)
			}
		})
	}
}

func TestSplitReferenceDate(t *testing.T) {
	ref, date, ok := SplitReferenceDate("ICICN22025030316 03/04/25")
	if !ok {
		t.Fatal("expected a reference-date split")
	}
	if ref != "ICICN22025030316" {
		t.Errorf("ref: got %q, want %q", ref, "ICICN22025030316")
	}
	if date != "03/04/25" {
		t.Errorf("date: got %q, want %q", date, "03/04/25")
	}

	if _, _, ok := SplitReferenceDate("UPI-JOHN DOE"); ok {
		t.Error("narration should not split as reference-date")
	}
}

func TestNormalizeReference(t *testing.T) {
	d := hdfcDialect(t)

	tests := []struct {
		name      string
		ref       string
		valueDate string
		expected  string
	}{
		{
			name:      "fused value date suffix",
			ref:       "ICICN220250303161503/04/25",
			valueDate: "03/04/25",
			expected:  "ICICN22025030316",
		},
		{
			name:      "plain trailing date",
			ref:       "1234567890 01/03/25",
			valueDate: "",
			expected:  "1234567890",
		},
		{
			name:      "clean reference untouched",
			ref:       "0001234567",
			valueDate: "02/03/25",
			expected:  "0001234567",
		},
		{
			name:      "empty",
			ref:       "",
			valueDate: "01/03/25",
			expected:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeReference(tt.ref, tt.valueDate, d)
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}
