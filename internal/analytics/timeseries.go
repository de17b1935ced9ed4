package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type Granularity string

const (
	GranularityHour  Granularity = "hour"
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
)

// Point is one chart bucket. Revenue and Expenses are nil when the bucket
// saw no sale or no expense respectively, which is distinct from zero.
type Point struct {
	Label     string
	Start     time.Time
	Revenue   *decimal.Decimal
	Expenses  *decimal.Decimal
	NetProfit decimal.Decimal
}

type bucketAcc struct {
	start    time.Time
	revenue  *decimal.Decimal
	cost     decimal.Decimal
	expenses *decimal.Decimal
}

func addTo(p **decimal.Decimal, v decimal.Decimal) {
	if *p == nil {
		zero := decimal.Zero
		*p = &zero
	}

	**p = (**p).Add(v)
}

// BuildTimeSeries buckets activity for charting. Single-day periods get
// hourly buckets inside the current window holding only active hours; every
// other period gets one bucket per active calendar day across the whole log.
func BuildTimeSeries(log Log, w Window) (Granularity, []Point) {
	granularity := GranularityDay
	sales, expenses := log.Sales, log.Expenses

	if w.Period.SingleDay() {
		granularity = GranularityHour
		sales, expenses = log.SalesIn(w.Current), log.ExpensesIn(w.Current)
	}

	buckets := map[int64]*bucketAcc{}

	bucket := func(t time.Time) *bucketAcc {
		start := bucketStart(t, granularity)

		b, ok := buckets[start.Unix()]
		if !ok {
			b = &bucketAcc{start: start, cost: decimal.Zero}
			buckets[start.Unix()] = b
		}

		return b
	}

	for _, s := range sales {
		b := bucket(s.At)
		addTo(&b.revenue, s.NetAmount())
		b.cost = b.cost.Add(saleCost(s))
	}

	for _, e := range expenses {
		addTo(&bucket(e.At).expenses, e.Amount)
	}

	points := make([]Point, 0, len(buckets))

	for _, b := range buckets {
		net := b.cost.Neg()
		if b.revenue != nil {
			net = net.Add(*b.revenue)
		}

		if b.expenses != nil {
			net = net.Sub(*b.expenses)
		}

		points = append(points, Point{
			Label:     bucketLabel(b.start, granularity),
			Start:     b.start,
			Revenue:   b.revenue,
			Expenses:  b.expenses,
			NetProfit: net,
		})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Start.Before(points[j].Start) })

	return granularity, points
}

func bucketStart(t time.Time, g Granularity) time.Time {
	switch g {
	case GranularityHour:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	case GranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	default:
		return midnight(t)
	}
}

func bucketLabel(start time.Time, g Granularity) string {
	switch g {
	case GranularityHour:
		return start.Format("15:04")
	case GranularityMonth:
		return start.Format("Jan 2006")
	default:
		return start.Format(time.DateOnly)
	}
}

// nextBucket steps from one bucket start to the next.
func nextBucket(start time.Time, g Granularity) time.Time {
	switch g {
	case GranularityHour:
		return start.Add(time.Hour)
	case GranularityMonth:
		return start.AddDate(0, 1, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}
