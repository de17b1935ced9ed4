package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ActiveWindow is how recent a purchase must be for a customer to count as
// active.
const ActiveWindow = 30 * 24 * time.Hour

// growthMonths is how far back the all-time growth chart reaches.
const growthMonths = 6

type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "Active"
	CustomerInactive CustomerStatus = "Inactive"
)

// Customer aggregates one identity. Orders and spend cover the requested
// window; first and last purchase are lifetime.
type Customer struct {
	Key           string
	DisplayName   string
	Phone         string
	TotalOrders   int
	TotalSpend    decimal.Decimal
	FirstPurchase time.Time
	LastPurchase  time.Time
	Status        CustomerStatus
	MemberSince   string
}

type GrowthPoint struct {
	Label        string
	Start        time.Time
	NewCustomers int
}

type CustomerReport struct {
	Window      Window
	Customers   []Customer
	Granularity Granularity
	Growth      []GrowthPoint
	// NewInSpan is the number of first purchases inside the growth span.
	NewInSpan int
}

type lifetime struct {
	first, last time.Time
}

// lifetimes finds each identity's first and last purchase across the log.
func (l Log) lifetimes() map[string]lifetime {
	out := map[string]lifetime{}

	for _, s := range l.Sales {
		key, ok := l.identity(s)
		if !ok {
			continue
		}

		lt, seen := out[key]
		if !seen || s.At.Before(lt.first) {
			lt.first = s.At
		}

		if !seen || s.At.After(lt.last) {
			lt.last = s.At
		}

		out[key] = lt
	}

	return out
}

// AggregateCustomers builds the customer table for w's current range and the
// growth series of first purchases.
func AggregateCustomers(log Log, w Window, now time.Time) CustomerReport {
	lifetimes := log.lifetimes()
	byKey := map[string]*Customer{}

	for _, s := range log.SalesIn(w.Current) {
		key, ok := log.identity(s)
		if !ok {
			continue
		}

		c, seen := byKey[key]
		if !seen {
			c = &Customer{Key: key, TotalSpend: decimal.Zero}
			byKey[key] = c
		}

		// Sales are chronological, so the latest sale names the customer.
		c.DisplayName = strings.TrimSpace(s.CustomerName)
		if phone := strings.TrimSpace(s.CustomerPhone); phone != "" {
			c.Phone = phone
		}

		c.TotalOrders++
		c.TotalSpend = c.TotalSpend.Add(s.NetAmount())
	}

	customers := make([]Customer, 0, len(byKey))

	for key, c := range byKey {
		lt := lifetimes[key]
		c.FirstPurchase = lt.first
		c.LastPurchase = lt.last
		c.MemberSince = "Member since " + lt.first.Format("Jan 2006")
		c.Status = CustomerInactive

		if now.Sub(lt.last) <= ActiveWindow {
			c.Status = CustomerActive
		}

		customers = append(customers, *c)
	}

	sort.Slice(customers, func(i, j int) bool {
		if c := customers[i].TotalSpend.Cmp(customers[j].TotalSpend); c != 0 {
			return c > 0
		}

		return customers[i].Key < customers[j].Key
	})

	granularity, growth := growthSeries(lifetimes, w, now)

	total := 0
	for _, p := range growth {
		total += p.NewCustomers
	}

	return CustomerReport{
		Window:      w,
		Customers:   customers,
		Granularity: granularity,
		Growth:      growth,
		NewInSpan:   total,
	}
}

// growthSeries counts first purchases per bucket. Bounded windows get one
// bucket per day; the all-time window gets the last six calendar months.
func growthSeries(lifetimes map[string]lifetime, w Window, now time.Time) (Granularity, []GrowthPoint) {
	granularity := GranularityDay
	span := w.Current

	if span.Unbounded() {
		granularity = GranularityMonth
		thisMonth := bucketStart(now, GranularityMonth)
		span = Range{Start: thisMonth.AddDate(0, 1-growthMonths, 0), End: thisMonth.AddDate(0, 1, 0)}
	}

	var points []GrowthPoint

	index := map[int64]int{}

	for start := span.Start; start.Before(span.End); start = nextBucket(start, granularity) {
		index[start.Unix()] = len(points)
		points = append(points, GrowthPoint{Label: bucketLabel(start, granularity), Start: start})
	}

	for _, lt := range lifetimes {
		if !span.Contains(lt.first) {
			continue
		}

		if i, ok := index[bucketStart(lt.first.In(span.Start.Location()), granularity).Unix()]; ok {
			points[i].NewCustomers++
		}
	}

	return granularity, points
}
