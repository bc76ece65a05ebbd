// Package money formats prices for display.
package money

import (
	"github.com/dustin/go-humanize"
)

const nbsp = "\u00a0"

// Placeholder is shown instead of a price that is not offered.
const Placeholder = "—"

// Formatter renders amounts with a locale-specific grouping pattern and currency symbol.
type Formatter struct {
	pattern string
	symbol  string
}

// RUB formats amounts the ru-RU way: "1 234,50 ₽" with non-breaking spaces.
func RUB() Formatter {
	return Formatter{pattern: "#" + nbsp + "###,##", symbol: "₽"}
}

// New returns a formatter for a humanize.FormatFloat pattern and a trailing currency symbol.
func New(pattern, symbol string) Formatter {
	return Formatter{pattern: pattern, symbol: symbol}
}

// Format renders v as currency.
func (f Formatter) Format(v float64) string {
	if f.pattern == "" {
		f = RUB()
	}
	s := humanize.FormatFloat(f.pattern, v)
	if f.symbol == "" {
		return s
	}
	return s + nbsp + f.symbol
}

// Price renders v as currency, or the placeholder when v is not positive.
func (f Formatter) Price(v float64) string {
	if v <= 0 {
		return Placeholder
	}
	return f.Format(v)
}
