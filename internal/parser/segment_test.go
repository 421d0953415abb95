package parser

import (
	"testing"
)

func TestSplitPagesHDFC(t *testing.T) {
	d := hdfcDialect(t)

	text := `HDFC BANK Ltd.
--- Page 1 ---
01/03/25 UPI-JOHN
100.00
Page No .: 1
--- Page 2 ---
02/03/25 NEFT-ACME
200.00
Page No .: 2`

	sections := SplitPages(text, d)
	if len(sections) != 2 {
		t.Fatalf("sections: got %d, want 2", len(sections))
	}

	if sections[0].Number != 1 {
		t.Errorf("sections[0].Number: got %d, want 1", sections[0].Number)
	}
	// Pre-marker content belongs to page 1, marker line retained.
	if sections[0].Lines[0] != "HDFC BANK Ltd." {
		t.Errorf("sections[0].Lines[0]: got %q", sections[0].Lines[0])
	}
	if sections[0].Lines[1] != "--- Page 1 ---" {
		t.Errorf("sections[0].Lines[1]: got %q", sections[0].Lines[1])
	}

	if sections[1].Number != 2 {
		t.Errorf("sections[1].Number: got %d, want 2", sections[1].Number)
	}
	if sections[1].Lines[0] != "--- Page 2 ---" {
		t.Errorf("sections[1].Lines[0]: got %q", sections[1].Lines[0])
	}
}

func TestSplitPagesICICI(t *testing.T) {
	d := iciciDialect(t)

	text := `ICICI Bank statement
17-09-2024
B/F
93,498.86
Page 1 of 2
18-09-2024
590.00
92,908.86
Page 2 of 2`

	sections := SplitPages(text, d)
	if len(sections) != 2 {
		t.Fatalf("sections: got %d, want 2", len(sections))
	}
	// The first "Page 1 of 2" marker confirms the implicit page 1; rows
	// ahead of it stay on page 1.
	if sections[0].Number != 1 {
		t.Errorf("sections[0].Number: got %d, want 1", sections[0].Number)
	}
	if sections[0].Lines[0] != "ICICI Bank statement" {
		t.Errorf("sections[0].Lines[0]: got %q", sections[0].Lines[0])
	}
	if sections[1].Number != 2 {
		t.Errorf("sections[1].Number: got %d, want 2", sections[1].Number)
	}
}

func TestSplitPagesNoMarkers(t *testing.T) {
	d := hdfcDialect(t)

	sections := SplitPages("01/03/25 UPI-JOHN\n100.00", d)
	if len(sections) != 1 {
		t.Fatalf("sections: got %d, want 1", len(sections))
	}
	if sections[0].Number != 1 {
		t.Errorf("Number: got %d, want 1", sections[0].Number)
	}
	if len(sections[0].Lines) != 2 {
		t.Errorf("lines: got %d, want 2", len(sections[0].Lines))
	}
}

func TestSplitPagesEmpty(t *testing.T) {
	d := hdfcDialect(t)

	sections := SplitPages("", d)
	if len(sections) != 1 {
		t.Fatalf("sections: got %d, want 1", len(sections))
	}
}

func TestSectionByNumber(t *testing.T) {
	d := hdfcDialect(t)
	sections := SplitPages("--- Page 1 ---\nx\n--- Page 2 ---\ny", d)

	if s := SectionByNumber(sections, 2); s == nil || s.Number != 2 {
		t.Errorf("page 2 lookup failed: %+v", s)
	}
	if s := SectionByNumber(sections, 9); s != nil {
		t.Errorf("page 9 should be nil, got %+v", s)
	}
}
