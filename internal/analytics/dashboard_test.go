package analytics_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/vyapari/internal/analytics"
	"github.com/MrJamesThe3rd/vyapari/internal/ledger"
)

func TestAssemble_Today(t *testing.T) {
	now := at(2025, time.March, 14, 18, 0)
	txs := []*ledger.Transaction{
		sale(at(2025, time.March, 14, 11, 0), "Jeans", 2, 1000, 1000, discount(200), customer("Suresh K", "98765 43210")),
		expense(at(2025, time.March, 14, 12, 0), 300),
	}

	d := analytics.Assemble(analytics.PeriodToday, now, txs, nil, "")

	assertDecimal(t, "1800", d.KPIs.TotalRevenue.Value)
	assertDecimal(t, "2000", d.KPIs.TotalCost.Value)
	assertDecimal(t, "-500", d.KPIs.NetProfit.Value)
	assertDecimal(t, "1", d.KPIs.OrderCount.Value)

	require.NotNil(t, d.KPIs.TotalRevenue.ChangePct)
	assert.Equal(t, 100.0, *d.KPIs.TotalRevenue.ChangePct)
	require.NotNil(t, d.KPIs.NetProfit.ChangePct)
	assert.Equal(t, 0.0, *d.KPIs.NetProfit.ChangePct)

	assert.Equal(t, analytics.GranularityHour, d.Charts.Granularity)
	require.Len(t, d.Charts.TopProducts, 1)
	assert.Equal(t, "Jeans", d.Charts.TopProducts[0].Name)

	require.Len(t, d.Modules.RecentOrders, 1)
	assert.Equal(t, "2 x Jeans", d.Modules.RecentOrders[0].Items)
	assertDecimal(t, "1800", d.Modules.RecentOrders[0].Amount)

	assert.Equal(t, []string{"revenue_up"}, codes(d.Modules.Insights))
	assert.Equal(t, analytics.SpotlightMostFrequent, d.Modules.Spotlight.Kind)
	assert.Equal(t, "Suresh K", d.Modules.Spotlight.Name)
	assert.Equal(t, 0, d.SkippedRecords)
}

func TestAssemble_AllTimeHasNoComparison(t *testing.T) {
	now := at(2025, time.March, 14, 18, 0)
	txs := []*ledger.Transaction{
		sale(at(2024, time.December, 1, 11, 0), "Jeans", 1, 1000, 600),
		sale(at(2025, time.March, 14, 11, 0), "Jeans", 1, 1000, 600),
		{ID: "garbage", Kind: ledger.KindSale, Sale: &ledger.Sale{}},
	}

	d := analytics.Assemble(analytics.PeriodAll, now, txs, nil, "")

	assertDecimal(t, "2000", d.KPIs.TotalRevenue.Value)
	assert.Nil(t, d.KPIs.TotalRevenue.ChangePct)
	assert.Nil(t, d.KPIs.OrderCount.ChangePct)
	assert.Equal(t, analytics.GranularityDay, d.Charts.Granularity)
	assert.Len(t, d.Charts.TimeSeries, 2)
	assert.Equal(t, 1, d.SkippedRecords)
	assert.Equal(t, analytics.SpotlightNone, d.Modules.Spotlight.Kind)
}

func TestAssemble_RecentOrdersNewestFirst(t *testing.T) {
	now := at(2025, time.March, 14, 18, 0)

	var txs []*ledger.Transaction
	for i := range 7 {
		txs = append(txs, sale(at(2025, time.March, 14, 9+i, 0), fmt.Sprintf("Item %d", i), 1, 100, 50))
	}

	d := analytics.Assemble(analytics.PeriodToday, now, txs, nil, "")

	require.Len(t, d.Modules.RecentOrders, 5)

	for i, order := range d.Modules.RecentOrders {
		assert.Equal(t, fmt.Sprintf("1 x Item %d", 6-i), order.Items)
	}
}

func TestAssemble_SpotlightFollowsWindow(t *testing.T) {
	now := at(2025, time.March, 14, 18, 0)

	type testCase struct {
		name       string
		txs        []*ledger.Transaction
		wantKind   analytics.SpotlightKind
		wantName   string
		wantOrders int
		wantSpend  string
	}

	tests := []testCase{
		{
			name: "QuietDayWithOlderHistory",
			txs: []*ledger.Transaction{
				sale(at(2024, time.June, 2, 11, 0), "Jeans", 1, 1000, 600, customer("Old", "111")),
			},
			wantKind:  analytics.SpotlightNone,
			wantName:  "N/A",
			wantSpend: "0",
		},
		{
			name: "ReturningCustomerKeepsLifetimeTotals",
			txs: []*ledger.Transaction{
				sale(at(2024, time.June, 2, 11, 0), "Jeans", 1, 1000, 600, customer("Old", "111")),
				sale(at(2025, time.January, 9, 11, 0), "Saree", 1, 2500, 1500, customer("Gone", "222")),
				sale(at(2025, time.March, 14, 10, 0), "Jeans", 1, 1000, 600, customer("old", "1-1-1")),
			},
			wantKind:   analytics.SpotlightMostFrequent,
			wantName:   "old",
			wantOrders: 2,
			wantSpend:  "2000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := analytics.Assemble(analytics.PeriodToday, now, tt.txs, nil, "")

			got := d.Modules.Spotlight
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.wantOrders, got.Orders)
			assertDecimal(t, tt.wantSpend, got.Spend)
		})
	}
}
