package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type SpotlightKind string

const (
	SpotlightNone         SpotlightKind = "none"
	SpotlightTopSpender   SpotlightKind = "top_spender"
	SpotlightMostFrequent SpotlightKind = "most_frequent"
	SpotlightAtRiskVIP    SpotlightKind = "at_risk_vip"
)

var spotlightTitles = map[SpotlightKind]string{
	SpotlightNone:         "No customers yet",
	SpotlightTopSpender:   "Top Spender",
	SpotlightMostFrequent: "Most Frequent Buyer",
	SpotlightAtRiskVIP:    "At-Risk VIP",
}

type Spotlight struct {
	Kind         SpotlightKind
	Title        string
	Name         string
	Phone        string
	Spend        decimal.Decimal
	Orders       int
	LastPurchase *time.Time
}

type spotlightStrategy func(customers []Customer, now time.Time) (Customer, SpotlightKind)

var spotlightByWeekday = map[time.Weekday]spotlightStrategy{
	time.Monday:    topSpender,
	time.Tuesday:   topSpender,
	time.Wednesday: topSpender,
	time.Thursday:  mostFrequent,
	time.Friday:    mostFrequent,
	time.Saturday:  atRiskVIP,
	time.Sunday:    atRiskVIP,
}

// SelectSpotlight picks the customer story for now's weekday.
func SelectSpotlight(customers []Customer, now time.Time) Spotlight {
	if len(customers) == 0 {
		return Spotlight{Kind: SpotlightNone, Title: spotlightTitles[SpotlightNone], Name: "N/A", Spend: decimal.Zero}
	}

	c, kind := spotlightByWeekday[now.Weekday()](customers, now)

	return Spotlight{
		Kind:         kind,
		Title:        spotlightTitles[kind],
		Name:         c.DisplayName,
		Phone:        c.Phone,
		Spend:        c.TotalSpend,
		Orders:       c.TotalOrders,
		LastPurchase: new(c.LastPurchase),
	}
}

// bySpend orders customers by spend, highest first. Ties go to the key.
func bySpend(customers []Customer) []Customer {
	sorted := append([]Customer(nil), customers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := sorted[i].TotalSpend.Cmp(sorted[j].TotalSpend); c != 0 {
			return c > 0
		}

		return sorted[i].Key < sorted[j].Key
	})

	return sorted
}

func topSpender(customers []Customer, _ time.Time) (Customer, SpotlightKind) {
	return bySpend(customers)[0], SpotlightTopSpender
}

func mostFrequent(customers []Customer, _ time.Time) (Customer, SpotlightKind) {
	best := bySpend(customers)[0]

	for _, c := range bySpend(customers) {
		if c.TotalOrders > best.TotalOrders {
			best = c
		}
	}

	return best, SpotlightMostFrequent
}

// atRiskVIP looks for the biggest spender of the top quartile who has not
// bought anything in the active window.
func atRiskVIP(customers []Customer, now time.Time) (Customer, SpotlightKind) {
	sorted := bySpend(customers)
	quartile := max((len(sorted)+3)/4, 1)

	for _, c := range sorted[:quartile] {
		if now.Sub(c.LastPurchase) > ActiveWindow {
			return c, SpotlightAtRiskVIP
		}
	}

	return sorted[0], SpotlightTopSpender
}
