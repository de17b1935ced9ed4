package analytics

import "github.com/shopspring/decimal"

// PercentChange is 100*(current-previous)/previous rounded to two places.
// A zero baseline yields 100 for any growth and 0 otherwise.
func PercentChange(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsPositive() {
			return 100
		}

		return 0
	}

	return current.Sub(previous).Mul(hundred).Div(previous).Round(2).InexactFloat64()
}

// KPI is a metric value with its change against the previous window. A nil
// ChangePct means there was nothing to compare against.
type KPI struct {
	Value     decimal.Decimal
	ChangePct *float64
}

type KPIs struct {
	TotalRevenue      KPI
	TotalCost         KPI
	NetProfit         KPI
	GrossMarginPct    KPI
	TotalExpenses     KPI
	OrderCount        KPI
	AverageOrderValue KPI
	NewCustomerCount  KPI
}

// Compare builds KPIs from current, comparing each against previous when it
// is non-nil.
func Compare(current Metrics, previous *Metrics) KPIs {
	kpi := func(cur func(Metrics) decimal.Decimal) KPI {
		k := KPI{Value: cur(current)}
		if previous != nil {
			k.ChangePct = new(PercentChange(k.Value, cur(*previous)))
		}

		return k
	}

	return KPIs{
		TotalRevenue:      kpi(func(m Metrics) decimal.Decimal { return m.TotalRevenue }),
		TotalCost:         kpi(func(m Metrics) decimal.Decimal { return m.TotalCost }),
		NetProfit:         kpi(func(m Metrics) decimal.Decimal { return m.NetProfit }),
		GrossMarginPct:    kpi(func(m Metrics) decimal.Decimal { return decimal.NewFromFloat(m.GrossMarginPct) }),
		TotalExpenses:     kpi(func(m Metrics) decimal.Decimal { return m.TotalExpenses }),
		OrderCount:        kpi(func(m Metrics) decimal.Decimal { return decimal.NewFromInt(int64(m.OrderCount)) }),
		AverageOrderValue: kpi(func(m Metrics) decimal.Decimal { return m.AverageOrderValue }),
		NewCustomerCount:  kpi(func(m Metrics) decimal.Decimal { return decimal.NewFromInt(int64(m.NewCustomerCount)) }),
	}
}
