// Package money holds the amount rounding rules shared by the ledger,
// liabilities and invoices.
package money

import "github.com/shopspring/decimal"

const (
	// LedgerScale is the number of fractional digits stored for ledger
	// amounts and quantities.
	LedgerScale = 4

	// LineScale is the number of fractional digits used for line totals.
	LineScale = 2
)

// Normalize rounds an amount to the ledger scale, half up.
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(d decimal.Decimal) decimal.Decimal {
	return d.Round(LedgerScale)
}

// Round2 rounds an amount to the line total scale, half up.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(LineScale)
}

// LineTotal computes round2(unitPrice * quantity).
func LineTotal(unitPrice, quantity decimal.Decimal) decimal.Decimal {
	return Round2(unitPrice.Mul(quantity))
}
