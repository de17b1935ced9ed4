package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/vyapari/internal/inventory"
)

const (
	// trendThresholdPct is the revenue swing that raises a trend notice.
	trendThresholdPct = 10.0
	DeadStockWindow   = 30 * 24 * time.Hour
)

type InsightKind string

const (
	InsightRisk        InsightKind = "risk"
	InsightOpportunity InsightKind = "opportunity"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

type Insight struct {
	Kind     InsightKind
	Severity Severity
	Code     string
	Title    string
	Message  string
}

// InsightInput carries everything the rules look at.
type InsightInput struct {
	Window         Window
	Now            time.Time
	LowStockReport string
	// RevenueChange is nil when the window has no comparison.
	RevenueChange *float64
	Catalog       []*inventory.Item
	Log           Log
}

type insightRule func(in InsightInput) []Insight

var insightRules = []insightRule{lowStockRule, revenueTrendRule, deadStockRule}

// DetectInsights evaluates every rule independently.
func DetectInsights(in InsightInput) []Insight {
	var out []Insight
	for _, rule := range insightRules {
		out = append(out, rule(in)...)
	}

	return out
}

func lowStockRule(in InsightInput) []Insight {
	if strings.TrimSpace(in.LowStockReport) == "" {
		return nil
	}

	return []Insight{{
		Kind:     InsightRisk,
		Severity: SeverityCritical,
		Code:     "low_stock",
		Title:    "Low stock",
		Message:  strings.TrimSpace(in.LowStockReport),
	}}
}

func revenueTrendRule(in InsightInput) []Insight {
	if in.RevenueChange == nil {
		return nil
	}

	change := *in.RevenueChange

	switch {
	case change > trendThresholdPct:
		return []Insight{{
			Kind:     InsightOpportunity,
			Severity: SeverityInfo,
			Code:     "revenue_up",
			Title:    "Revenue is up",
			Message:  fmt.Sprintf("Revenue is up %.1f%% on the previous %s.", change, in.Window.Period),
		}}
	case change < -trendThresholdPct:
		return []Insight{{
			Kind:     InsightRisk,
			Severity: SeverityWarning,
			Code:     "revenue_down",
			Title:    "Revenue is down",
			Message:  fmt.Sprintf("Revenue is down %.1f%% on the previous %s.", -change, in.Window.Period),
		}}
	}

	return nil
}

// deadStockRule only runs for month and all-time views.
func deadStockRule(in InsightInput) []Insight {
	if in.Window.Period != PeriodMonth && in.Window.Period != PeriodAll {
		return nil
	}

	recent := Range{Start: in.Now.Add(-DeadStockWindow), End: in.Now.Add(time.Nanosecond)}
	sold := map[string]bool{}

	for _, s := range in.Log.SalesIn(recent) {
		for _, item := range s.Items {
			sold[productKey(item.ProductName)] = true
		}
	}

	catalog := make([]*inventory.Item, 0, len(in.Catalog))
	for _, item := range in.Catalog {
		if item != nil {
			catalog = append(catalog, item)
		}
	}

	sort.SliceStable(catalog, func(i, j int) bool { return productKey(catalog[i].Name) < productKey(catalog[j].Name) })

	var out []Insight

	for _, item := range catalog {
		if sold[productKey(item.Name)] {
			continue
		}

		out = append(out, Insight{
			Kind:     InsightRisk,
			Severity: SeverityWarning,
			Code:     "dead_stock",
			Title:    "Dead stock",
			Message:  fmt.Sprintf("'%s' has not sold in 30 days (%d in stock).", item.Name, item.Quantity),
		})
	}

	return out
}
