package stubserver

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/arun19061/newstatement/internal/report"
)

// BuildArchive packs the reports into a zip: the raw report data as JSON, the
// transactions as CSV, and a plain-text summary.
func BuildArchive(reports report.Reports, now time.Time) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)

	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report data: %w", err)
	}
	if err := writeEntry(zw, "financial_data.json", data); err != nil {
		return nil, err
	}
	if err := writeEntry(zw, "transactions.csv", transactionsCSV(reports.Transactions)); err != nil {
		return nil, err
	}
	if err := writeEntry(zw, "financial_summary.txt", []byte(summaryText(reports, now))); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func transactionsCSV(txns []report.Transaction) []byte {
	buf := &bytes.Buffer{}
	cw := csv.NewWriter(buf)
	cw.Write([]string{"date", "description", "amount", "category", "type"})
	for _, t := range txns {
		cw.Write([]string{t.Date, t.Description, strconv.FormatFloat(t.Amount, 'f', 2, 64), t.Category, t.Type})
	}
	cw.Flush()
	return buf.Bytes()
}

func summaryText(reports report.Reports, now time.Time) string {
	stmt := reports.IncomeStatement
	bs := reports.BalanceSheet
	cf := reports.CashFlow
	return fmt.Sprintf(`FINANCIAL REPORTS SUMMARY
Generated on: %s

INCOME STATEMENT
================
Total Income: $%.2f
Total Expenses: $%.2f
Net Income: $%.2f

BALANCE SHEET
=============
Total Assets: $%.2f
Total Liabilities: $%.2f
Total Equity: $%.2f

CASH FLOW STATEMENT
===================
Net Cash Flow: $%.2f

TRANSACTION SUMMARY
===================
Total Transactions: %d
`,
		now.Format("2006-01-02 15:04:05"),
		stmt.TotalIncome, stmt.TotalExpenses, stmt.NetIncome,
		bs.TotalAssets, bs.TotalLiabilities, bs.TotalEquity,
		cf.NetCashFlow,
		len(reports.Transactions))
}
