package dashboard

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vyapari/internal/analytics"
)

type windowResponse struct {
	Period analytics.Period `json:"period"`
	Start  *time.Time       `json:"start"`
	End    *time.Time       `json:"end"`
}

type kpiResponse struct {
	Value     float64  `json:"value"`
	ChangePct *float64 `json:"change_pct"`
}

type kpisResponse struct {
	TotalRevenue      kpiResponse `json:"total_revenue"`
	TotalCost         kpiResponse `json:"total_cost"`
	NetProfit         kpiResponse `json:"net_profit"`
	GrossMarginPct    kpiResponse `json:"gross_margin_pct"`
	TotalExpenses     kpiResponse `json:"total_expenses"`
	OrderCount        kpiResponse `json:"order_count"`
	AverageOrderValue kpiResponse `json:"average_order_value"`
	NewCustomerCount  kpiResponse `json:"new_customer_count"`
}

type pointResponse struct {
	Label     string    `json:"label"`
	Start     time.Time `json:"start"`
	Revenue   *float64  `json:"revenue"`
	Expenses  *float64  `json:"expenses"`
	NetProfit float64   `json:"net_profit"`
}

type productResponse struct {
	Rank     int     `json:"rank"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

type chartsResponse struct {
	Granularity analytics.Granularity `json:"granularity"`
	TimeSeries  []pointResponse       `json:"time_series"`
	TopProducts []productResponse     `json:"top_products"`
}

type orderResponse struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Customer string    `json:"customer"`
	Items    string    `json:"items"`
	Amount   float64   `json:"amount"`
	Status   string    `json:"status"`
}

type insightResponse struct {
	Kind     analytics.InsightKind `json:"kind"`
	Severity analytics.Severity    `json:"severity"`
	Code     string                `json:"code"`
	Title    string                `json:"title"`
	Message  string                `json:"message"`
}

type spotlightResponse struct {
	Kind         analytics.SpotlightKind `json:"kind"`
	Title        string                  `json:"title"`
	Name         string                  `json:"name"`
	Phone        string                  `json:"phone,omitempty"`
	Spend        float64                 `json:"spend"`
	Orders       int                     `json:"orders"`
	LastPurchase *time.Time              `json:"last_purchase"`
}

type modulesResponse struct {
	RecentOrders []orderResponse   `json:"recent_orders"`
	Insights     []insightResponse `json:"insights"`
	Spotlight    spotlightResponse `json:"spotlight"`
}

type dashboardResponse struct {
	Window      windowResponse  `json:"window"`
	GeneratedAt time.Time       `json:"generated_at"`
	KPIs        kpisResponse    `json:"kpis"`
	Charts      chartsResponse  `json:"charts"`
	Modules     modulesResponse `json:"modules"`
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func optionalMoney(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}

	return new(money(*d))
}

func toKPI(k analytics.KPI) kpiResponse {
	return kpiResponse{Value: money(k.Value), ChangePct: k.ChangePct}
}

// toWindow renders a window with nil bounds for the all-time period.
func toWindow(w analytics.Window) windowResponse {
	resp := windowResponse{Period: w.Period}
	if !w.Current.Unbounded() {
		resp.Start = new(w.Current.Start)
		resp.End = new(w.Current.End)
	}

	return resp
}

func toResponse(d *analytics.Dashboard) dashboardResponse {
	resp := dashboardResponse{
		Window:      toWindow(d.Window),
		GeneratedAt: d.GeneratedAt,
		KPIs: kpisResponse{
			TotalRevenue:      toKPI(d.KPIs.TotalRevenue),
			TotalCost:         toKPI(d.KPIs.TotalCost),
			NetProfit:         toKPI(d.KPIs.NetProfit),
			GrossMarginPct:    toKPI(d.KPIs.GrossMarginPct),
			TotalExpenses:     toKPI(d.KPIs.TotalExpenses),
			OrderCount:        toKPI(d.KPIs.OrderCount),
			AverageOrderValue: toKPI(d.KPIs.AverageOrderValue),
			NewCustomerCount:  toKPI(d.KPIs.NewCustomerCount),
		},
		Charts: chartsResponse{
			Granularity: d.Charts.Granularity,
			TimeSeries:  make([]pointResponse, 0, len(d.Charts.TimeSeries)),
			TopProducts: make([]productResponse, 0, len(d.Charts.TopProducts)),
		},
		Modules: modulesResponse{
			RecentOrders: make([]orderResponse, 0, len(d.Modules.RecentOrders)),
			Insights:     make([]insightResponse, 0, len(d.Modules.Insights)),
		},
	}

	for _, p := range d.Charts.TimeSeries {
		resp.Charts.TimeSeries = append(resp.Charts.TimeSeries, pointResponse{
			Label:     p.Label,
			Start:     p.Start,
			Revenue:   optionalMoney(p.Revenue),
			Expenses:  optionalMoney(p.Expenses),
			NetProfit: money(p.NetProfit),
		})
	}

	for _, p := range d.Charts.TopProducts {
		resp.Charts.TopProducts = append(resp.Charts.TopProducts, productResponse{
			Rank:     p.Rank,
			Name:     p.Name,
			Quantity: p.Quantity,
			Revenue:  money(p.Revenue),
		})
	}

	for _, o := range d.Modules.RecentOrders {
		resp.Modules.RecentOrders = append(resp.Modules.RecentOrders, orderResponse{
			ID:       o.ID,
			Date:     o.At,
			Customer: o.Customer,
			Items:    o.Items,
			Amount:   money(o.Amount),
			Status:   string(o.Status),
		})
	}

	for _, in := range d.Modules.Insights {
		resp.Modules.Insights = append(resp.Modules.Insights, insightResponse(in))
	}

	s := d.Modules.Spotlight
	resp.Modules.Spotlight = spotlightResponse{
		Kind:         s.Kind,
		Title:        s.Title,
		Name:         s.Name,
		Phone:        s.Phone,
		Spend:        money(s.Spend),
		Orders:       s.Orders,
		LastPurchase: s.LastPurchase,
	}

	return resp
}
