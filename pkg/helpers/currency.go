package helpers

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders an amount with two decimals and en-US digit
// grouping, e.g. FormatCurrency(1299.99, "$") == "$1,299.99".
func FormatCurrency(amount decimal.Decimal, symbol string) string {
	negative := amount.IsNegative()
	fixed := amount.Abs().StringFixed(2)

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	out := symbol + groupThousands(intPart) + "." + fracPart
	if negative {
		return "-" + out
	}
	return out
}

// FormatInt renders n with en-US digit grouping ("1,205").
func FormatInt(n int) string {
	if n < 0 {
		return "-" + groupThousands(strconv.Itoa(-n))
	}
	return groupThousands(strconv.Itoa(n))
}

// FormatPercent renders a percentage with one decimal ("12.5%").
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64) + "%"
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
