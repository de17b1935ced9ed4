package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/MrJamesThe3rd/vyapari/internal/analytics"
)

type dashboardState int

const (
	dashboardStatePeriod dashboardState = iota
	dashboardStateLoading
	dashboardStateReady
)

type DashboardModel struct {
	CommonModel
	engine *analytics.Engine

	state   dashboardState
	picker  PeriodPicker
	spinner spinner.Model
	period  analytics.Period
	board   *analytics.Dashboard
	err     error
}

func NewDashboardModel(engine *analytics.Engine, initial analytics.Period) DashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return DashboardModel{
		engine:  engine,
		state:   dashboardStatePeriod,
		picker:  NewPeriodPicker(initial),
		spinner: s,
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	if m.state == dashboardStateReady {
		return "Esc: back | p: change period | r: refresh"
	}

	return "Esc: back | Enter: select"
}

func (m DashboardModel) Init() tea.Cmd {
	return nil
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PeriodSelectedMsg:
		m.period = msg.Period
		m.state = dashboardStateLoading

		return m, tea.Batch(m.spinner.Tick, m.loadCmd(msg.Period))

	case dashboardLoadedMsg:
		m.state = dashboardStateReady
		m.board = msg.board
		m.err = msg.err

		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	if m.state == dashboardStateLoading {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m DashboardModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case dashboardStatePeriod:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd

	case dashboardStateReady:
		switch msg.String() {
		case "esc":
			return m, Back
		case "p":
			m.state = dashboardStatePeriod
			return m, nil
		case "r":
			m.state = dashboardStateLoading
			return m, tea.Batch(m.spinner.Tick, m.loadCmd(m.period))
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	switch m.state {
	case dashboardStatePeriod:
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())
	case dashboardStateLoading:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Crunching the numbers...", m.spinner.View()),
		)
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	d := m.board

	window := "All time"
	if !d.Window.Current.Unbounded() {
		window = fmt.Sprintf("%s to %s",
			d.Window.Current.Start.Format("02 Jan 15:04"),
			d.Window.Current.End.Format("02 Jan 15:04"))
	}

	sections := []string{
		headingStyle.Render(fmt.Sprintf("%s (%s)", periodLabels[d.Window.Period], window)),
		"",
		kpiTable(d.KPIs),
		"",
		headingStyle.Render("Top Products"),
		topProductsView(d.Charts.TopProducts),
		"",
		headingStyle.Render("Insights"),
		insightsView(d.Modules.Insights),
		"",
		headingStyle.Render("Customer Spotlight"),
		spotlightView(d.Modules.Spotlight),
	}

	if d.SkippedRecords > 0 {
		sections = append(sections, "", mutedStyle.Render(
			fmt.Sprintf("%d unreadable records were skipped", d.SkippedRecords)))
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func kpiTable(k analytics.KPIs) string {
	row := func(label string, kpi analytics.KPI, value string) []string {
		return []string{label, value, FormatChange(kpi.ChangePct)}
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("KPI", "Value", "Change").
		Rows(
			row("Revenue", k.TotalRevenue, FormatMoney(k.TotalRevenue.Value)),
			row("Cost", k.TotalCost, FormatMoney(k.TotalCost.Value)),
			row("Expenses", k.TotalExpenses, FormatMoney(k.TotalExpenses.Value)),
			row("Net Profit", k.NetProfit, FormatMoney(k.NetProfit.Value)),
			row("Gross Margin", k.GrossMarginPct, k.GrossMarginPct.Value.StringFixed(1)+"%"),
			row("Orders", k.OrderCount, k.OrderCount.Value.String()),
			row("Avg Order", k.AverageOrderValue, FormatMoney(k.AverageOrderValue.Value)),
			row("New Customers", k.NewCustomerCount, k.NewCustomerCount.Value.String()),
		).
		String()
}

func topProductsView(products []analytics.ProductRank) string {
	if len(products) == 0 {
		return mutedStyle.Render("No sales in this period")
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("#", "Product", "Qty", "Revenue")

	for _, p := range products {
		t.Row(strconv.Itoa(p.Rank), p.Name, strconv.Itoa(p.Quantity), FormatMoney(p.Revenue))
	}

	return t.String()
}

func insightsView(insights []analytics.Insight) string {
	if len(insights) == 0 {
		return mutedStyle.Render("Nothing to flag")
	}

	lines := make([]string, 0, len(insights))

	for _, in := range insights {
		style := mutedStyle
		switch in.Severity {
		case analytics.SeverityCritical:
			style = errorStyle
		case analytics.SeverityWarning:
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
		case analytics.SeverityInfo:
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
		}

		lines = append(lines, style.Render("● "+in.Title)+"  "+in.Message)
	}

	return strings.Join(lines, "\n")
}

func spotlightView(s analytics.Spotlight) string {
	if s.Kind == analytics.SpotlightNone {
		return mutedStyle.Render(s.Title)
	}

	last := "-"
	if s.LastPurchase != nil {
		last = FormatDate(*s.LastPurchase)
	}

	return fmt.Sprintf("%s: %s %s\n%d orders, %s spent, last purchase %s",
		s.Title, activeStyle(s.Name), s.Phone, s.Orders, FormatMoney(s.Spend), last)
}

type dashboardLoadedMsg struct {
	board *analytics.Dashboard
	err   error
}

func (m DashboardModel) loadCmd(period analytics.Period) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		board, err := m.engine.BuildDashboard(ctx, string(period))

		return dashboardLoadedMsg{board: board, err: err}
	}
}
