package view

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const dbTimeout = 5 * time.Second

// FormatMoney renders an amount in rupees with two decimals.
func FormatMoney(d decimal.Decimal) string {
	return "₹" + d.StringFixed(2)
}

// FormatChange renders a period-over-period change, or "n/a" when there is
// nothing to compare against.
func FormatChange(pct *float64) string {
	if pct == nil {
		return "n/a"
	}

	return fmt.Sprintf("%+.1f%%", *pct)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Format(time.DateOnly)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
