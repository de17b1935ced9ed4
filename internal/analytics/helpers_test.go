package analytics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/vyapari/internal/analytics"
	"github.com/MrJamesThe3rd/vyapari/internal/ledger"
)

var ist = time.FixedZone("IST", 19800)

func at(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, ist)
}

type saleOpt func(s *ledger.Sale)

func customer(name, phone string) saleOpt {
	return func(s *ledger.Sale) {
		s.CustomerName = name
		s.CustomerPhone = phone
	}
}

func discount(amount int64) saleOpt {
	return func(s *ledger.Sale) { s.DiscountAmount = decimal.NewFromInt(amount) }
}

func withItem(name string, qty int, price, cost int64) saleOpt {
	return func(s *ledger.Sale) {
		s.Items = append(s.Items, ledger.LineItem{
			ProductName:    name,
			Quantity:       qty,
			UnitPrice:      decimal.NewFromInt(price),
			UnitCostAtSale: decimal.NewFromInt(cost),
		})
		s.GrossAmount = s.GrossAmount.Add(decimal.NewFromInt(price * int64(qty)))
	}
}

// sale records qty units of item at price with the given unit cost.
func sale(t time.Time, item string, qty int, price, cost int64, opts ...saleOpt) *ledger.Transaction {
	s := &ledger.Sale{
		GrossAmount:    decimal.Zero,
		DiscountAmount: decimal.Zero,
		Status:         ledger.SaleStatusConfirmed,
	}

	withItem(item, qty, price, cost)(s)

	for _, opt := range opts {
		opt(s)
	}

	return &ledger.Transaction{ID: ledger.NewID(t, ist), Kind: ledger.KindSale, Sale: s}
}

func expense(t time.Time, amount int64) *ledger.Transaction {
	return &ledger.Transaction{
		ID:   ledger.NewID(t, ist),
		Kind: ledger.KindExpense,
		Expense: &ledger.Expense{
			Reason:   "misc",
			Category: "General",
			Amount:   decimal.NewFromInt(amount),
		},
	}
}

func archive(t time.Time, name, phone string) *ledger.Transaction {
	return &ledger.Transaction{
		ID:   ledger.NewID(t, ist),
		Kind: ledger.KindCustomer,
		Customer: &ledger.CustomerRecord{
			Name:   name,
			Phone:  phone,
			Status: ledger.CustomerStatusArchived,
		},
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Equal(t, want, got.String(), msgAndArgs...)
}

func assertRange(t *testing.T, wantStart, wantEnd time.Time, got analytics.Range) {
	t.Helper()
	assert.True(t, wantStart.Equal(got.Start), "start: want %s, got %s", wantStart, got.Start)
	assert.True(t, wantEnd.Equal(got.End), "end: want %s, got %s", wantEnd, got.End)
}
