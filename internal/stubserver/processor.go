// Package stubserver implements a local statement processing service with the
// same wire contract the dashboard client consumes. It exists so the TUI can
// be exercised end to end without a deployed backend.
package stubserver

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/arun19061/newstatement/internal/report"
)

// ---------------------------------------------------------------------------
// Chart of accounts
// ---------------------------------------------------------------------------

type accountGroup struct {
	name       string
	categories map[string][]string
}

// chartOfAccounts maps description keywords to "<group>_<category>" labels.
// First keyword hit wins; unmatched descriptions fall into "uncategorized".
var chartOfAccounts = []accountGroup{
	{
		name: "income",
		categories: map[string][]string{
			"salary":       {"salary", "payroll", "wages"},
			"business":     {"freelance", "consulting", "client", "project"},
			"investment":   {"dividend", "interest", "return", "yield"},
			"other_income": {"refund", "reimbursement", "gift"},
		},
	},
	{
		name: "expenses",
		categories: map[string][]string{
			"housing":       {"rent", "mortgage", "emi", "house", "apartment"},
			"utilities":     {"electric", "water", "bill", "utility", "internet", "mobile"},
			"food":          {"grocery", "restaurant", "food", "dining", "supermarket"},
			"transport":     {"fuel", "petrol", "uber", "ola", "transport", "bus", "train"},
			"healthcare":    {"medical", "hospital", "doctor", "pharmacy", "medicine"},
			"entertainment": {"movie", "netflix", "prime", "entertainment", "game"},
			"shopping":      {"shopping", "mall", "amazon", "flipkart", "purchase"},
		},
	},
}

func categorize(description string) string {
	desc := strings.ToLower(description)
	for _, group := range chartOfAccounts {
		for category, keywords := range group.categories {
			for _, kw := range keywords {
				if strings.Contains(desc, kw) {
					return group.name + "_" + category
				}
			}
		}
	}
	return "uncategorized"
}

// ---------------------------------------------------------------------------
// File parsing
// ---------------------------------------------------------------------------

// ParseFile extracts transactions from one uploaded file, dispatching on the
// filename extension.
func ParseFile(filename string, r io.Reader) ([]report.Transaction, error) {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".csv"):
		return parseCSV(r)
	case strings.HasSuffix(name, ".json"):
		return parseJSON(r)
	default:
		return nil, fmt.Errorf("unsupported file format")
	}
}

// column is one named cell of a statement row, in source order.
type column struct {
	key   string
	value string
}

func parseCSV(r io.Reader) ([]report.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var txns []report.Transaction
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		row := make([]column, 0, len(header))
		for i, name := range header {
			if i < len(record) {
				row = append(row, column{key: name, value: record[i]})
			}
		}
		if t, ok := extractTransaction(row); ok {
			txns = append(txns, t)
		}
	}
	return txns, nil
}

func parseJSON(r io.Reader) ([]report.Transaction, error) {
	var rows []map[string]any
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	var txns []report.Transaction
	for _, raw := range rows {
		keys := make([]string, 0, len(raw))
		for k := range raw {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		row := make([]column, 0, len(keys))
		for _, k := range keys {
			switch val := raw[k].(type) {
			case string:
				row = append(row, column{key: k, value: val})
			case float64:
				row = append(row, column{key: k, value: decimal.NewFromFloat(val).String()})
			case nil:
			default:
				row = append(row, column{key: k, value: fmt.Sprint(val)})
			}
		}
		if t, ok := extractTransaction(row); ok {
			txns = append(txns, t)
		}
	}
	return txns, nil
}

// extractTransaction pulls date, description and amount out of one row using
// column-name heuristics. Signed amount columns take priority; debit columns
// force the amount negative and credit columns positive. Rows with a zero
// amount are dropped.
func extractTransaction(row []column) (report.Transaction, bool) {
	var amount float64
	if v, ok := findColumn(row, "amount", "amt", "value"); ok {
		amount = parseAmount(v)
	} else if v, ok := findColumn(row, "debit", "withdrawal"); ok {
		amount = -abs(parseAmount(v))
	} else if v, ok := findColumn(row, "credit", "deposit"); ok {
		amount = abs(parseAmount(v))
	}
	if amount == 0 {
		return report.Transaction{}, false
	}

	description := "Unknown Transaction"
	if v, ok := findColumn(row, "description", "desc", "particulars", "narration", "details"); ok {
		description = v
	}
	date := ""
	if v, ok := findColumn(row, "date"); ok {
		date = v
	}

	kind := "expense"
	if amount > 0 {
		kind = "income"
	}
	return report.Transaction{
		Date:        date,
		Description: description,
		Amount:      amount,
		Category:    categorize(description),
		Type:        kind,
	}, true
}

// parseAmount tolerates thousands separators and common currency symbols.
// Unparseable values become zero and drop the row upstream.
func parseAmount(value string) float64 {
	cleaned := strings.NewReplacer(",", "", "$", "", "₹", "", "€", "").Replace(strings.TrimSpace(value))
	if cleaned == "" {
		return 0
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// findColumn returns the first non-empty column whose lowercased name
// contains any of the terms.
func findColumn(row []column, terms ...string) (string, bool) {
	for _, c := range row {
		if c.value == "" {
			continue
		}
		keyLower := strings.ToLower(c.key)
		for _, term := range terms {
			if strings.Contains(keyLower, term) {
				return c.value, true
			}
		}
	}
	return "", false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// ---------------------------------------------------------------------------
// Report generation
// ---------------------------------------------------------------------------

var (
	assetFactor     = decimal.NewFromFloat(0.7)
	liabilityFactor = decimal.NewFromFloat(0.3)
	activityFactor  = decimal.NewFromFloat(0.1)
)

// GenerateReports aggregates the transactions into the four statements.
// Expense breakdown keys carry an "expense_" prefix and negative amounts;
// the headline totals are both positive magnitudes.
func GenerateReports(txns []report.Transaction) report.Reports {
	income := map[string]decimal.Decimal{}
	expenses := map[string]decimal.Decimal{}
	for _, t := range txns {
		amount := decimal.NewFromFloat(t.Amount)
		if t.Amount > 0 {
			income[t.Category] = income[t.Category].Add(amount)
		} else {
			expenses[t.Category] = expenses[t.Category].Add(amount.Abs())
		}
	}

	totalIncome := decimal.Zero
	for _, v := range income {
		totalIncome = totalIncome.Add(v)
	}
	totalExpenses := decimal.Zero
	for _, v := range expenses {
		totalExpenses = totalExpenses.Add(v)
	}
	netIncome := totalIncome.Sub(totalExpenses)

	breakdown := make(map[string]float64, len(income)+len(expenses))
	for k, v := range income {
		breakdown[k], _ = v.Float64()
	}
	for k, v := range expenses {
		breakdown["expense_"+k], _ = v.Neg().Float64()
	}

	totalAssets := totalIncome.Mul(assetFactor)
	totalLiabilities := totalExpenses.Mul(liabilityFactor)
	investing := totalIncome.Mul(activityFactor)
	financing := totalExpenses.Mul(activityFactor)

	return report.Reports{
		Transactions: txns,
		IncomeStatement: report.IncomeStatement{
			TotalIncome:   f64(totalIncome),
			TotalExpenses: f64(totalExpenses),
			NetIncome:     f64(netIncome),
			Breakdown:     breakdown,
		},
		BalanceSheet: report.BalanceSheet{
			TotalAssets:      f64(totalAssets),
			TotalLiabilities: f64(totalLiabilities),
			TotalEquity:      f64(totalAssets.Sub(totalLiabilities)),
		},
		CashFlow: report.CashFlow{
			OperatingActivities: f64(netIncome),
			InvestingActivities: f64(investing),
			FinancingActivities: f64(financing),
			NetCashFlow:         f64(netIncome.Add(investing).Add(financing)),
		},
	}
}

func f64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
