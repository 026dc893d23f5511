package export

import "github.com/shopspring/decimal"

// Round2 rounds a ledger amount to cents.
func Round2(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// FormatMoney renders v with exactly two decimals, e.g. 33.333 -> "33.33".
func FormatMoney(v float64) string {
	return Round2(v).StringFixed(2)
}

// cell returns the rounded amount as a float for spreadsheet cells.
func cell(v float64) float64 {
	return Round2(v).InexactFloat64()
}
