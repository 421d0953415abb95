package parser

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseHDFCStatement(t *testing.T) {
	d := hdfcDialect(t)
	e := NewEngine(zerolog.Nop())

	text := `HDFC BANK Ltd.
Statement of account

--- Page 1 ---
Date
Narration
Chq./Ref.No.
Value Dt
Withdrawal Amt.
Deposit Amt.
Closing Balance
28/02/25 OPENING BALANCE B/F
4,000.00
01/03/25 UPI-XYZ
1234567890
02/03/25
1000.00
5000.00
03/03/25 UPI-COFFEE SHOP
5556667778
03/03/25
150.00
4,850.00
SPLIT WITH
Page No .: 1
--- Page 2 ---
FRIENDS
JOHN
04/03/25 NEFT-ACME CORP SALARY
9876543210
04/03/25
25,000.00
29,850.00
Page No .: 2
STATEMENT SUMMARY
Generated On: 01/04/2025`

	result, err := e.Parse(text, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if len(result.Transactions) != 4 {
		t.Fatalf("transactions: got %d, want 4", len(result.Transactions))
	}
	if len(result.Mismatches) != 0 {
		t.Fatalf("mismatches: got %d, want 0: %+v", len(result.Mismatches), result.Mismatches)
	}

	// Opening row carries only the balance.
	txn := result.Transactions[0]
	if txn.Balance != 4000 || txn.Deposits != 0 || txn.Withdrawals != 0 {
		t.Errorf("txn[0]: got %+v, want balance-only opening row", txn)
	}

	// Keyword guess (debit) corrected to credit because the balance rose.
	txn = result.Transactions[1]
	if txn.Date != "01/03/25" {
		t.Errorf("txn[1].Date: got %q, want %q", txn.Date, "01/03/25")
	}
	if txn.Deposits != 1000 || txn.Withdrawals != 0 {
		t.Errorf("txn[1]: got deposits=%f withdrawals=%f, want deposits=1000", txn.Deposits, txn.Withdrawals)
	}
	if txn.Reference != "1234567890" {
		t.Errorf("txn[1].Reference: got %q, want %q", txn.Reference, "1234567890")
	}
	if txn.Mode != "UPI" {
		t.Errorf("txn[1].Mode: got %q, want %q", txn.Mode, "UPI")
	}

	// Narration cut by the page break: sentinel stripped, next page's
	// short fragments reattached.
	txn = result.Transactions[2]
	if txn.Particulars != "UPI-COFFEE SHOP SPLIT WITH FRIENDS JOHN" {
		t.Errorf("txn[2].Particulars: got %q", txn.Particulars)
	}
	if txn.Withdrawals != 150 || txn.Deposits != 0 {
		t.Errorf("txn[2]: got deposits=%f withdrawals=%f, want withdrawals=150", txn.Deposits, txn.Withdrawals)
	}
	if txn.Page != 1 {
		t.Errorf("txn[2].Page: got %d, want 1", txn.Page)
	}

	// Summary and footer boilerplate stripped from the final narration.
	txn = result.Transactions[3]
	if txn.Particulars != "NEFT-ACME CORP SALARY" {
		t.Errorf("txn[3].Particulars: got %q", txn.Particulars)
	}
	if txn.Deposits != 25000 || txn.Withdrawals != 0 {
		t.Errorf("txn[3]: got deposits=%f withdrawals=%f, want deposits=25000", txn.Deposits, txn.Withdrawals)
	}
	if txn.Page != 2 {
		t.Errorf("txn[3].Page: got %d, want 2", txn.Page)
	}
}

func TestParseICICIStatement(t *testing.T) {
	d := iciciDialect(t)
	e := NewEngine(zerolog.Nop())

	text := `ICICI Bank Limited
Statement of transactions

Page 1 of 1
DATE
MODE**
PARTICULARS
DEPOSITS
WITHDRAWALS
BALANCE
17-09-2024
B/F
93,498.86
18-09-2024
MOBILE BANKING SI ACH RETURN CHARGES
590.00
92,908.86
19-09-2024
NEFT INWARD REMITTANCE FROM ACME
12,000.00
1,04,908.86`

	result, err := e.Parse(text, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Transactions) != 3 {
		t.Fatalf("transactions: got %d, want 3", len(result.Transactions))
	}
	if len(result.Mismatches) != 0 {
		t.Fatalf("mismatches: got %d, want 0: %+v", len(result.Mismatches), result.Mismatches)
	}

	// B/F row seeds the running balance and carries no movement.
	txn := result.Transactions[0]
	if txn.Balance != 93498.86 || txn.Deposits != 0 || txn.Withdrawals != 0 {
		t.Errorf("txn[0]: got %+v, want B/F seed 93498.86", txn)
	}

	// Undifferentiated amount classified as debit by the balance equation.
	txn = result.Transactions[1]
	if txn.Withdrawals != 590 || txn.Deposits != 0 {
		t.Errorf("txn[1]: got deposits=%f withdrawals=%f, want withdrawals=590", txn.Deposits, txn.Withdrawals)
	}
	if txn.Mode != "MOBILE BANKING" {
		t.Errorf("txn[1].Mode: got %q, want %q", txn.Mode, "MOBILE BANKING")
	}

	// Lakh-grouped balance, classified as credit.
	txn = result.Transactions[2]
	if txn.Deposits != 12000 || txn.Withdrawals != 0 {
		t.Errorf("txn[2]: got deposits=%f withdrawals=%f, want deposits=12000", txn.Deposits, txn.Withdrawals)
	}
	if txn.Balance != 104908.86 {
		t.Errorf("txn[2].Balance: got %f, want 104908.86", txn.Balance)
	}
	if txn.Mode != "" {
		t.Errorf("txn[2].Mode: got %q, want empty", txn.Mode)
	}
}

func TestParseDialectMismatch(t *testing.T) {
	d := hdfcDialect(t)
	e := NewEngine(zerolog.Nop())

	result, err := e.Parse("Some unrelated document text", d)
	if !errors.Is(err, ErrDialectMismatch) {
		t.Fatalf("expected ErrDialectMismatch, got %v", err)
	}
	if result.Success {
		t.Error("mismatch must not be reported as success")
	}
	if len(result.Transactions) != 0 {
		t.Errorf("transactions: got %d, want 0", len(result.Transactions))
	}
	if result.Error == "" {
		t.Error("result must name the expected institution")
	}
}

func TestParseEmptyStatement(t *testing.T) {
	d := hdfcDialect(t)
	e := NewEngine(zerolog.Nop())

	result, err := e.Parse("HDFC BANK statement with no transaction rows", d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success {
		t.Error("no transactions means success=false")
	}
	if result.Error == "" {
		t.Error("expected an explanatory error message")
	}
}

func TestValidateText(t *testing.T) {
	d := hdfcDialect(t)
	e := NewEngine(zerolog.Nop())

	if !e.Validate("statement from HDFC BANK Ltd.", d) {
		t.Error("HDFC text should validate")
	}
	if e.Validate("statement from some other bank", d) {
		t.Error("foreign text should not validate")
	}
}
