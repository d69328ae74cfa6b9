package report

import "testing"

func TestSavingsRate(t *testing.T) {
	s := Summary{TotalIncome: 1000, NetIncome: 250}
	if got := SavingsRate(s); got != 25 {
		t.Errorf("SavingsRate = %v, want 25", got)
	}
}

func TestSavingsRateZeroIncome(t *testing.T) {
	s := Summary{TotalIncome: 0, NetIncome: -120}
	if got := SavingsRate(s); got != 0 {
		t.Errorf("SavingsRate with zero income = %v, want 0", got)
	}
}

func TestProfitMargin(t *testing.T) {
	s := Summary{TotalIncome: 2000, NetIncome: 500}
	if got := ProfitMargin(s); got != 25 {
		t.Errorf("ProfitMargin = %v, want 25", got)
	}
}

func TestExpenseRatio(t *testing.T) {
	s := Summary{TotalIncome: 2000, TotalExpenses: 1500}
	if got := ExpenseRatio(s); got != 75 {
		t.Errorf("ExpenseRatio = %v, want 75", got)
	}
}

func TestAssetCoverage(t *testing.T) {
	b := BalanceSheet{TotalAssets: 700, TotalLiabilities: 350}
	if got := AssetCoverage(b); got != 2 {
		t.Errorf("AssetCoverage = %v, want 2", got)
	}
}

func TestAssetCoverageZeroLiabilities(t *testing.T) {
	b := BalanceSheet{TotalAssets: 500, TotalLiabilities: 0}
	if got := AssetCoverage(b); got != 0 {
		t.Errorf("AssetCoverage with zero liabilities = %v, want 0", got)
	}
}
