package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySuffix is appended to every displayed price
const CurrencySuffix = "€"

// FormatPrice formats a size price for display, e.g. "50€" or "12.5€".
// A null price yields the contact-for-pricing placeholder.
func FormatPrice(price decimal.NullDecimal) string {
	if !price.Valid {
		return LabelContactForPrice
	}
	return FormatAmount(price.Decimal)
}

// FormatAmount formats an amount without trailing zeros followed by the currency suffix
func FormatAmount(amount decimal.Decimal) string {
	var b strings.Builder
	b.Grow(16)
	b.WriteString(amount.String())
	b.WriteString(CurrencySuffix)
	return b.String()
}
