// Package money holds the decimal conventions shared by the ledger and the
// waterfall engine: two fractional digits, truncating splits, en-US display.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Scale is the number of fractional digits of the smallest currency unit.
const Scale int32 = 2

var (
	hundred = decimal.NewFromInt(100)
	printer = message.NewPrinter(language.AmericanEnglish)
)

// Round rounds d to cents (half away from zero).
func Round(d decimal.Decimal) decimal.Decimal { return d.Round(Scale) }

// Floor drops everything below a cent. Used for proportional shares so the
// remainder can be handed to the last recipient.
func Floor(d decimal.Decimal) decimal.Decimal { return d.Truncate(Scale) }

// Sum adds up ds.
func Sum(ds ...decimal.Decimal) decimal.Decimal {
	out := decimal.Zero
	for _, d := range ds {
		out = out.Add(d)
	}
	return out
}

// Percent turns 8 into 0.08.
func Percent(p decimal.Decimal) decimal.Decimal { return p.Div(hundred) }

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// NonNegative clamps d at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// HasCents reports whether d is representable in whole cents.
func HasCents(d decimal.Decimal) bool { return d.Equal(d.Round(Scale)) }

// FormatUSD renders d the way debt details are displayed: "$100,000",
// "$1,234.5". Trailing fractional zeros are dropped.
func FormatUSD(d decimal.Decimal) string {
	r := Round(d)
	sign := ""
	if r.IsNegative() {
		sign, r = "-", r.Abs()
	}
	// group the integer part only; float64 would lose cents on large amounts
	out := sign + "$" + printer.Sprintf("%v", number.Decimal(r.IntPart()))
	fixed := r.StringFixed(Scale)
	if frac := strings.TrimRight(fixed[strings.IndexByte(fixed, '.')+1:], "0"); frac != "" {
		out += "." + frac
	}
	return out
}
