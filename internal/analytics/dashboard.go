package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vyapari/internal/inventory"
	"github.com/MrJamesThe3rd/vyapari/internal/ledger"
)

const recentOrdersLimit = 5

type Dashboard struct {
	Window      Window
	GeneratedAt time.Time
	KPIs        KPIs
	Charts      Charts
	Modules     Modules
	// SkippedRecords counts log entries that could not be read.
	SkippedRecords int
}

type Charts struct {
	Granularity Granularity
	TimeSeries  []Point
	TopProducts []ProductRank
}

type Modules struct {
	RecentOrders []RecentOrder
	Insights     []Insight
	Spotlight    Spotlight
}

type RecentOrder struct {
	ID       string
	At       time.Time
	Customer string
	Items    string
	Amount   decimal.Decimal
	Status   ledger.SaleStatus
}

// Assemble computes the dashboard for period at now from already fetched
// data. now's location is the shop calendar.
func Assemble(period Period, now time.Time, txs []*ledger.Transaction, catalog []*inventory.Item, lowStockReport string) *Dashboard {
	w := Resolve(period, now)
	log := Classify(txs, now.Location())

	current := Calculate(log.SalesIn(w.Current), log.ExpensesIn(w.Current), log.Archived)

	var previous *Metrics

	if w.Comparable() {
		previous = new(Calculate(log.SalesIn(w.Previous), log.ExpensesIn(w.Previous), log.Archived))
	}

	kpis := Compare(current, previous)
	granularity, series := BuildTimeSeries(log, w)
	windowSales := log.SalesIn(w.Current)

	return &Dashboard{
		Window:         w,
		GeneratedAt:    now,
		KPIs:           kpis,
		SkippedRecords: log.Skipped,
		Charts: Charts{
			Granularity: granularity,
			TimeSeries:  series,
			TopProducts: TopProducts(windowSales, topProductsLimit),
		},
		Modules: Modules{
			RecentOrders: recentOrders(windowSales, recentOrdersLimit),
			Insights: DetectInsights(InsightInput{
				Window:         w,
				Now:            now,
				LowStockReport: lowStockReport,
				RevenueChange:  kpis.TotalRevenue.ChangePct,
				Catalog:        catalog,
				Log:            log,
			}),
			Spotlight: SelectSpotlight(spotlightCandidates(log, w, now), now),
		},
	}
}

// spotlightCandidates returns the lifetime aggregates of customers who bought
// something in w's current range.
func spotlightCandidates(log Log, w Window, now time.Time) []Customer {
	inWindow := map[string]bool{}

	for _, s := range log.SalesIn(w.Current) {
		if key, ok := log.identity(s); ok {
			inWindow[key] = true
		}
	}

	if len(inWindow) == 0 {
		return nil
	}

	var out []Customer

	for _, c := range AggregateCustomers(log, Resolve(PeriodAll, now), now).Customers {
		if inWindow[c.Key] {
			out = append(out, c)
		}
	}

	return out
}

// recentOrders returns the newest sales first.
func recentOrders(sales []SaleRecord, limit int) []RecentOrder {
	var out []RecentOrder

	for i := len(sales) - 1; i >= 0 && len(out) < limit; i-- {
		s := sales[i]
		out = append(out, RecentOrder{
			ID:       s.ID,
			At:       s.At,
			Customer: s.CustomerName,
			Items:    s.Describe(),
			Amount:   s.NetAmount(),
			Status:   s.Status,
		})
	}

	return out
}
