package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
)

const topProductsLimit = 5

type ProductRank struct {
	Rank     int
	Name     string
	Quantity int
	Revenue  decimal.Decimal
}

// lineRevenue splits a sale's net amount across its items in proportion to
// each item's gross, so discounts are shared out.
func lineRevenue(s SaleRecord) []decimal.Decimal {
	out := make([]decimal.Decimal, len(s.Items))
	gross := make([]decimal.Decimal, len(s.Items))
	total := decimal.Zero

	for i, item := range s.Items {
		gross[i] = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(gross[i])
	}

	net := s.NetAmount()

	for i := range s.Items {
		switch {
		case len(s.Items) == 1:
			out[i] = net
		case total.IsZero():
			out[i] = decimal.Zero
		default:
			out[i] = net.Mul(gross[i]).Div(total).Round(2)
		}
	}

	return out
}

// TopProducts ranks products by revenue, highest first, breaking ties by
// name.
func TopProducts(sales []SaleRecord, limit int) []ProductRank {
	type acc struct {
		name     string
		quantity int
		revenue  decimal.Decimal
	}

	byKey := map[string]*acc{}

	for _, s := range sales {
		revenue := lineRevenue(s)

		for i, item := range s.Items {
			key := productKey(item.ProductName)
			if key == "" {
				continue
			}

			a, ok := byKey[key]
			if !ok {
				a = &acc{name: item.ProductName, revenue: decimal.Zero}
				byKey[key] = a
			}

			a.quantity += item.Quantity
			a.revenue = a.revenue.Add(revenue[i])
		}
	}

	ranked := make([]ProductRank, 0, len(byKey))
	for _, a := range byKey {
		ranked = append(ranked, ProductRank{Name: a.name, Quantity: a.quantity, Revenue: a.revenue})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if c := ranked[i].Revenue.Cmp(ranked[j].Revenue); c != 0 {
			return c > 0
		}

		return productKey(ranked[i].Name) < productKey(ranked[j].Name)
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked
}
