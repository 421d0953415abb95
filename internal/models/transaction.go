package models

// TransactionRecord is one normalized statement row.
//
// For any row that is not a brought-forward/opening row, at most one of
// Deposits/Withdrawals is non-zero after reconciliation.
type TransactionRecord struct {
	Date        string  `json:"date"`
	Mode        string  `json:"mode"`
	Particulars string  `json:"particulars"`
	Deposits    float64 `json:"deposits"`
	Withdrawals float64 `json:"withdrawals"`
	Balance     float64 `json:"balance"`
	Reference   string  `json:"reference,omitempty"`
	Page        int     `json:"page"`

	// OriginalOrder is a monotonic index across the whole document,
	// used as the stable tie-break when sorting by date.
	OriginalOrder int `json:"-"`
}

// PageSection holds the raw lines belonging to one statement page.
// Page marker lines are retained, not stripped, since downstream stages
// use them as boundary sentinels.
type PageSection struct {
	Number int
	Lines  []string
}

// MismatchRecord reports one transaction whose balance equation
// (previous balance + deposits - withdrawals = balance) failed.
type MismatchRecord struct {
	TransactionIndex int     `json:"transactionIndex"`
	Date             string  `json:"date"`
	ExpectedBalance  float64 `json:"expectedBalance"`
	ActualBalance    float64 `json:"actualBalance"`
	Difference       float64 `json:"difference"`
	Deposits         float64 `json:"deposits"`
	Withdrawals      float64 `json:"withdrawals"`
	PreviousBalance  float64 `json:"previousBalance"`
	Note             string  `json:"note,omitempty"`
}

// Result is what one whole-document parse returns. Success is false only
// when the dialect did not match the text at all; balance mismatches are
// reported alongside otherwise-successful output.
type Result struct {
	Dialect      string              `json:"dialect"`
	BankName     string              `json:"bankName"`
	Success      bool                `json:"success"`
	Error        string              `json:"error,omitempty"`
	Transactions []TransactionRecord `json:"transactions"`
	Mismatches   []MismatchRecord    `json:"mismatches,omitempty"`
}

// TotalDeposits sums the deposit side of all transactions.
func (r *Result) TotalDeposits() float64 {
	var total float64
	for _, txn := range r.Transactions {
		total += txn.Deposits
	}
	return total
}

// TotalWithdrawals sums the withdrawal side of all transactions.
func (r *Result) TotalWithdrawals() float64 {
	var total float64
	for _, txn := range r.Transactions {
		total += txn.Withdrawals
	}
	return total
}
