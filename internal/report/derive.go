package report

// Derived ratios are computed from the server aggregates on every render.
// The payload changes at most once per submission, so nothing is cached.
//
// Division by a zero denominator falls back to 0 rather than NaN or Inf,
// matching the service dashboard's established behavior.

// SavingsRate returns net income as a percentage of total income,
// or 0 when there is no income.
func SavingsRate(s Summary) float64 {
	if s.TotalIncome > 0 {
		return s.NetIncome / s.TotalIncome * 100
	}
	return 0
}

// ProfitMargin returns net income as a percentage of total income.
// The result is undefined when TotalIncome is 0; callers must guard.
func ProfitMargin(s Summary) float64 {
	return s.NetIncome / s.TotalIncome * 100
}

// ExpenseRatio returns total expenses as a percentage of total income.
// The result is undefined when TotalIncome is 0; callers must guard.
func ExpenseRatio(s Summary) float64 {
	return s.TotalExpenses / s.TotalIncome * 100
}

// AssetCoverage returns assets over liabilities, or 0 when there are no
// liabilities.
func AssetCoverage(b BalanceSheet) float64 {
	if b.TotalLiabilities == 0 {
		return 0
	}
	return b.TotalAssets / b.TotalLiabilities
}
