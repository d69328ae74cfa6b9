package report

import (
	"math"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
)

// FormatCurrency renders the absolute value of amount as a dollar figure with
// two decimals and grouped thousands ("$1,234.56"). Sign is conveyed by the
// caller through color, never by the string. NaN or infinite input is a
// caller contract violation.
func FormatCurrency(amount float64) string {
	cents := int64(math.Round(math.Abs(amount) * 100))
	return money.New(cents, money.USD).Display()
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders a byte count using the largest unit that keeps the
// value at or above one, with up to two fractional digits.
func FormatFileSize(bytes int64) string {
	if bytes == 0 {
		return "0 Bytes"
	}
	exp := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if exp < 0 {
		exp = 0
	}
	if exp >= len(sizeUnits) {
		exp = len(sizeUnits) - 1
	}
	value := float64(bytes) / math.Pow(1024, float64(exp))
	value = math.Round(value*100) / 100
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + sizeUnits[exp]
}

// FormatCategoryName humanizes an underscore-delimited category key:
// "expense_utilities" becomes "Expense Utilities".
func FormatCategoryName(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}
