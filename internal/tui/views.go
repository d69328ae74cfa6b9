package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arun19061/newstatement/internal/report"
)

// ---------------------------------------------------------------------------
// Panel view models. Projection functions are pure over the selection store
// and the current payload; rendering consumes the records without touching
// either. Re-projecting unchanged state yields identical view models.
// ---------------------------------------------------------------------------

const noReportPlaceholder = "No report yet. Select statement files (o) and process them (p)."

// expensePrefix partitions income-statement breakdown keys into the two
// groups rendered by the income statement panel.
const expensePrefix = "expense_"

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// ---------------------------------------------------------------------------
// Selection panel
// ---------------------------------------------------------------------------

type SelectionRow struct {
	Name string
	Size string
}

type SelectionView struct {
	Rows        []SelectionRow
	Placeholder string
}

func projectSelection(files []SelectedFile) SelectionView {
	if len(files) == 0 {
		return SelectionView{Placeholder: "No files selected. Press o to choose up to 5 statement files."}
	}
	rows := make([]SelectionRow, 0, len(files))
	for _, f := range files {
		rows = append(rows, SelectionRow{Name: f.Name, Size: report.FormatFileSize(f.SizeBytes)})
	}
	return SelectionView{Rows: rows}
}

// ---------------------------------------------------------------------------
// Overview panel
// ---------------------------------------------------------------------------

type RatioLine struct {
	Label string
	Value string
}

type OverviewView struct {
	Placeholder string

	TotalIncome   string
	TotalExpenses string
	NetIncome     string
	NetSign       int
	Transactions  int

	SavingsRate  float64
	SavingsLabel string
	SavingsTier  string

	// Bar shares are fractions of income+expenses, so the two bars compare
	// proportionally at any terminal width.
	IncomeShare  float64
	ExpenseShare float64

	Ratios []RatioLine
}

func projectOverview(p *report.Payload) OverviewView {
	if p == nil {
		return OverviewView{Placeholder: noReportPlaceholder}
	}
	s := p.Summary
	v := OverviewView{
		TotalIncome:   report.FormatCurrency(s.TotalIncome),
		TotalExpenses: report.FormatCurrency(s.TotalExpenses),
		NetIncome:     report.FormatCurrency(s.NetIncome),
		NetSign:       sign(s.NetIncome),
		Transactions:  s.TotalTransactions,
		SavingsRate:   report.SavingsRate(s),
	}
	v.SavingsLabel = fmt.Sprintf("%.1f%%", v.SavingsRate)
	switch {
	case v.SavingsRate >= 20:
		v.SavingsTier = "healthy"
	case v.SavingsRate >= 0:
		v.SavingsTier = "caution"
	default:
		v.SavingsTier = "risk"
	}

	if total := s.TotalIncome + s.TotalExpenses; total > 0 {
		v.IncomeShare = s.TotalIncome / total
		v.ExpenseShare = s.TotalExpenses / total
	}

	profitMargin, expenseRatio := 0.0, 0.0
	if s.TotalIncome > 0 {
		profitMargin = report.ProfitMargin(s)
		expenseRatio = report.ExpenseRatio(s)
	}
	v.Ratios = []RatioLine{
		{Label: "Profit Margin", Value: fmt.Sprintf("%.1f%%", profitMargin)},
		{Label: "Expense Ratio", Value: fmt.Sprintf("%.1f%%", expenseRatio)},
		{Label: "Asset Coverage", Value: fmt.Sprintf("%.2f", report.AssetCoverage(p.Reports.BalanceSheet))},
	}
	return v
}

// ---------------------------------------------------------------------------
// Transactions panel
// ---------------------------------------------------------------------------

type TransactionRow struct {
	Date        string
	Description string
	Category    string
	Amount      string
	Sign        int
}

type TransactionsView struct {
	Placeholder string
	Rows        []TransactionRow
	Shown       int
	Total       int
}

func projectTransactions(p *report.Payload) TransactionsView {
	if p == nil {
		return TransactionsView{Placeholder: noReportPlaceholder}
	}
	txns := p.Reports.Transactions
	if len(txns) == 0 {
		return TransactionsView{Placeholder: "No transactions in the current report."}
	}
	shown := len(txns)
	if shown > transactionDisplayCap {
		shown = transactionDisplayCap
	}
	rows := make([]TransactionRow, 0, shown)
	for _, t := range txns[:shown] {
		rows = append(rows, TransactionRow{
			Date:        t.Date,
			Description: t.Description,
			Category:    report.FormatCategoryName(t.Category),
			Amount:      report.FormatCurrency(t.Amount),
			Sign:        sign(t.Amount),
		})
	}
	return TransactionsView{Rows: rows, Shown: shown, Total: len(txns)}
}

// ---------------------------------------------------------------------------
// Income statement panel
// ---------------------------------------------------------------------------

type BreakdownRow struct {
	Name   string
	Amount string
	Sign   int
}

type IncomeStatementView struct {
	Placeholder string

	Income   []BreakdownRow
	Expenses []BreakdownRow

	TotalIncome   string
	TotalExpenses string
	NetIncome     string
	NetSign       int
}

func projectIncomeStatement(p *report.Payload) IncomeStatementView {
	if p == nil {
		return IncomeStatementView{Placeholder: noReportPlaceholder}
	}
	stmt := p.Reports.IncomeStatement

	keys := make([]string, 0, len(stmt.Breakdown))
	for k := range stmt.Breakdown {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	v := IncomeStatementView{
		TotalIncome:   report.FormatCurrency(stmt.TotalIncome),
		TotalExpenses: report.FormatCurrency(stmt.TotalExpenses),
		NetIncome:     report.FormatCurrency(stmt.NetIncome),
		NetSign:       sign(stmt.NetIncome),
	}
	for _, k := range keys {
		row := BreakdownRow{
			Name:   report.FormatCategoryName(k),
			Amount: report.FormatCurrency(stmt.Breakdown[k]),
			Sign:   sign(stmt.Breakdown[k]),
		}
		if strings.HasPrefix(k, expensePrefix) {
			v.Expenses = append(v.Expenses, row)
		} else {
			v.Income = append(v.Income, row)
		}
	}
	return v
}

// ---------------------------------------------------------------------------
// Balance sheet panel
// ---------------------------------------------------------------------------

type BalanceSheetView struct {
	Placeholder string

	Assets      string
	Liabilities string
	Equity      string
	// Total mirrors total assets; the service dashboard has always shown it
	// that way and downstream users reconcile against it.
	Total string
}

func projectBalanceSheet(p *report.Payload) BalanceSheetView {
	if p == nil {
		return BalanceSheetView{Placeholder: noReportPlaceholder}
	}
	b := p.Reports.BalanceSheet
	return BalanceSheetView{
		Assets:      report.FormatCurrency(b.TotalAssets),
		Liabilities: report.FormatCurrency(b.TotalLiabilities),
		Equity:      report.FormatCurrency(b.TotalEquity),
		Total:       report.FormatCurrency(b.TotalAssets),
	}
}

// ---------------------------------------------------------------------------
// Cash flow panel
// ---------------------------------------------------------------------------

type CashFlowLine struct {
	Label  string
	Amount string
	Sign   int
}

type CashFlowView struct {
	Placeholder string
	Lines       []CashFlowLine
	Net         CashFlowLine
}

func projectCashFlow(p *report.Payload) CashFlowView {
	if p == nil {
		return CashFlowView{Placeholder: noReportPlaceholder}
	}
	c := p.Reports.CashFlow
	return CashFlowView{
		Lines: []CashFlowLine{
			{Label: "Operating Activities", Amount: report.FormatCurrency(c.OperatingActivities), Sign: sign(c.OperatingActivities)},
			{Label: "Investing Activities", Amount: report.FormatCurrency(c.InvestingActivities), Sign: sign(c.InvestingActivities)},
			{Label: "Financing Activities", Amount: report.FormatCurrency(c.FinancingActivities), Sign: sign(c.FinancingActivities)},
		},
		Net: CashFlowLine{Label: "Net Cash Flow", Amount: report.FormatCurrency(c.NetCashFlow), Sign: sign(c.NetCashFlow)},
	}
}
