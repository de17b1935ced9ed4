package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDiscount turns a free-text discount into an amount off gross.
// "10%" takes a rounded percentage, "50", "50rs" and "Rs 50" are flat.
// Anything unparseable is no discount.
func ParseDiscount(spec string, gross decimal.Decimal) decimal.Decimal {
	s := strings.ToLower(strings.TrimSpace(spec))
	if s == "" {
		return decimal.Zero
	}

	if pct, ok := strings.CutSuffix(s, "%"); ok {
		p, err := decimal.NewFromString(strings.TrimSpace(pct))
		if err != nil {
			return decimal.Zero
		}

		return gross.Mul(p).Div(decimal.NewFromInt(100)).Round(0)
	}

	s = strings.TrimSpace(strings.ReplaceAll(s, "rs", ""))
	s = strings.TrimPrefix(strings.TrimSpace(strings.TrimPrefix(s, ".")), "₹")

	flat, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}

	return flat
}
