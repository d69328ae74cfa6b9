// Package report holds the wire types returned by the statement processing
// service, the derived ratios computed client-side, and the display
// formatting helpers shared by every panel.
package report

// Payload is the full response body of a successful /process call. It is
// assigned wholesale on success and never partially updated.
type Payload struct {
	Status         string       `json:"status,omitempty"`
	ProcessedFiles []FileStatus `json:"processed_files,omitempty"`
	Summary        Summary      `json:"summary"`
	Reports        Reports      `json:"reports"`
}

// FileStatus reports the outcome of parsing one uploaded file.
type FileStatus struct {
	Filename          string `json:"filename"`
	Status            string `json:"status"`
	TransactionsCount int    `json:"transactions_count,omitempty"`
	Error             string `json:"error,omitempty"`
}

// FailedFiles lists the names of uploaded files the service could not parse.
func (p *Payload) FailedFiles() []string {
	var out []string
	for _, f := range p.ProcessedFiles {
		if f.Status == "error" {
			out = append(out, f.Filename)
		}
	}
	return out
}

// Summary carries the four headline figures.
type Summary struct {
	TotalTransactions int     `json:"total_transactions"`
	TotalIncome       float64 `json:"total_income"`
	TotalExpenses     float64 `json:"total_expenses"`
	NetIncome         float64 `json:"net_income"`
}

// Reports groups the four statements.
type Reports struct {
	Transactions    []Transaction   `json:"transactions"`
	IncomeStatement IncomeStatement `json:"income_statement"`
	BalanceSheet    BalanceSheet    `json:"balance_sheet"`
	CashFlow        CashFlow        `json:"cash_flow"`
}

// Transaction is one categorized ledger entry.
type Transaction struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Type        string  `json:"type,omitempty"`
}

// IncomeStatement holds the per-category breakdown. Income categories carry
// positive amounts; expense categories are keyed with an "expense_" prefix
// and carry negative amounts.
type IncomeStatement struct {
	TotalIncome   float64            `json:"total_income"`
	TotalExpenses float64            `json:"total_expenses"`
	NetIncome     float64            `json:"net_income"`
	Breakdown     map[string]float64 `json:"breakdown"`
}

type BalanceSheet struct {
	TotalAssets      float64 `json:"total_assets"`
	TotalLiabilities float64 `json:"total_liabilities"`
	TotalEquity      float64 `json:"total_equity"`
}

type CashFlow struct {
	OperatingActivities float64 `json:"operating_activities"`
	InvestingActivities float64 `json:"investing_activities"`
	FinancingActivities float64 `json:"financing_activities"`
	NetCashFlow         float64 `json:"net_cash_flow"`
}
