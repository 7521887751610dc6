// Package money converts between the ledger's integer minor units and the
// decimal strings shown to users. The core never leaves int64.
package money

import "github.com/shopspring/decimal"

const minorUnitsPerRupee = 100

// Format renders minor units as a fixed two-decimal major-unit string,
// e.g. 300050 -> "3000.50".
func Format(minor int64) string {
	return decimal.NewFromInt(minor).
		Div(decimal.NewFromInt(minorUnitsPerRupee)).
		StringFixed(2)
}
