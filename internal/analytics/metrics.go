package analytics

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Metrics is the KPI snapshot of a set of sales and expenses.
type Metrics struct {
	TotalRevenue      decimal.Decimal
	TotalCost         decimal.Decimal
	NetProfit         decimal.Decimal
	GrossMarginPct    float64
	TotalExpenses     decimal.Decimal
	OrderCount        int
	AverageOrderValue decimal.Decimal
	NewCustomerCount  int

	customers map[string]struct{}
}

// saleCost is the cost of a sale's primary line item. Further items are not
// costed, so multi-item sales overstate profit.
// TODO: cost every line item once historical dashboards can be restated.
func saleCost(s SaleRecord) decimal.Decimal {
	item, ok := s.PrimaryItem()
	if !ok {
		return decimal.Zero
	}

	return item.UnitCostAtSale.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// Calculate reduces sales and expenses to a snapshot. Customers whose key is
// in archived are not counted.
func Calculate(sales []SaleRecord, expenses []ExpenseRecord, archived map[string]bool) Metrics {
	m := Metrics{
		TotalRevenue:  decimal.Zero,
		TotalCost:     decimal.Zero,
		TotalExpenses: decimal.Zero,
		customers:     map[string]struct{}{},
	}

	log := Log{Archived: archived}

	for _, s := range sales {
		m.TotalRevenue = m.TotalRevenue.Add(s.NetAmount())
		m.TotalCost = m.TotalCost.Add(saleCost(s))
		m.OrderCount++

		if key, ok := log.identity(s); ok {
			m.customers[key] = struct{}{}
		}
	}

	for _, e := range expenses {
		m.TotalExpenses = m.TotalExpenses.Add(e.Amount)
	}

	return m.derive()
}

// Combine merges two snapshots of disjoint record sets.
func Combine(a, b Metrics) Metrics {
	m := Metrics{
		TotalRevenue:  a.TotalRevenue.Add(b.TotalRevenue),
		TotalCost:     a.TotalCost.Add(b.TotalCost),
		TotalExpenses: a.TotalExpenses.Add(b.TotalExpenses),
		OrderCount:    a.OrderCount + b.OrderCount,
		customers:     make(map[string]struct{}, len(a.customers)+len(b.customers)),
	}

	for k := range a.customers {
		m.customers[k] = struct{}{}
	}

	for k := range b.customers {
		m.customers[k] = struct{}{}
	}

	return m.derive()
}

func (m Metrics) derive() Metrics {
	m.NetProfit = m.TotalRevenue.Sub(m.TotalCost).Sub(m.TotalExpenses)
	m.NewCustomerCount = len(m.customers)
	m.AverageOrderValue = decimal.Zero
	m.GrossMarginPct = 0

	if m.OrderCount > 0 {
		m.AverageOrderValue = m.TotalRevenue.Div(decimal.NewFromInt(int64(m.OrderCount))).Round(2)
	}

	if !m.TotalRevenue.IsZero() {
		m.GrossMarginPct = m.TotalRevenue.Sub(m.TotalCost).Mul(hundred).Div(m.TotalRevenue).Round(2).InexactFloat64()
	}

	return m
}
