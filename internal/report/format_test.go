package report

import "testing"

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{1, "$1.00"},
		{1234.5, "$1,234.50"},
		{-1234.5, "$1,234.50"},
		{999999.99, "$999,999.99"},
		{0.005, "$0.01"},
	}
	for _, tc := range cases {
		if got := FormatCurrency(tc.in); got != tc.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatCurrencySignAgnostic(t *testing.T) {
	for _, v := range []float64{0.01, 37, 1250.75, 1e6} {
		if FormatCurrency(v) != FormatCurrency(-v) {
			t.Errorf("FormatCurrency(%v) != FormatCurrency(%v)", v, -v)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 Bytes"},
		{1, "1 Bytes"},
		{512, "512 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1048576, "1 MB"},
		{1073741824, "1 GB"},
		{5 * 1073741824, "5 GB"},
	}
	for _, tc := range cases {
		if got := FormatFileSize(tc.in); got != tc.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatCategoryName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"expense_utilities", "Expense Utilities"},
		{"rent", "Rent"},
		{"income_other_income", "Income Other Income"},
		{"uncategorized", "Uncategorized"},
	}
	for _, tc := range cases {
		if got := FormatCategoryName(tc.in); got != tc.want {
			t.Errorf("FormatCategoryName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
