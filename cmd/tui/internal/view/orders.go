package view

import (
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/vyapari/internal/ledger"
)

type ordersState int

const (
	ordersStateBrowse ordersState = iota
	ordersStateEdit
)

type OrdersModel struct {
	CommonModel
	ledgerSvc *ledger.Service
	loc       *time.Location

	state  ordersState
	table  table.Model
	orders []*ledger.Transaction
	form   *huh.Form

	dateFilterIdx int
	filter        ledger.ListFilter

	loading bool
	err     error
	status  string

	// Form bindings
	formStatus ledger.SaleStatus
}

func NewOrdersModel(ledgerSvc *ledger.Service, loc *time.Location) OrdersModel {
	columns := []table.Column{
		{Title: "Date", Width: 17},
		{Title: "Customer", Width: 18},
		{Title: "Items", Width: 30},
		{Title: "Amount", Width: 12},
		{Title: "Status", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	kind := ledger.KindSale

	return OrdersModel{
		ledgerSvc: ledgerSvc,
		loc:       loc,
		table:     t,
		filter:    ledger.ListFilter{Kind: &kind},
		loading:   true,
	}
}

func (m OrdersModel) Title() string { return "Orders" }

func (m OrdersModel) ShortHelp() string {
	if m.state == ordersStateEdit {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | e: set status | d: date filter | r: refresh"
}

func (m OrdersModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m OrdersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ordersLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.orders = msg.orders
		m.refreshTable()

		return m, nil

	case orderSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		} else {
			m.status = ""
		}

		m.state = ordersStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case ordersStateBrowse:
		return m.updateBrowse(msg)
	case ordersStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m OrdersModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "e":
			return m.enterEditMode()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % 3
			m.applyFilter()
			m.loading = true

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m OrdersModel) enterEditMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.orders) {
		return m, nil
	}

	m.formStatus = m.orders[idx].Sale.Status
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[ledger.SaleStatus]().
				Key("status").
				Title("Order Status").
				Options(
					huh.NewOption("Confirmed", ledger.SaleStatusConfirmed),
					huh.NewOption("Delivered", ledger.SaleStatusDelivered),
					huh.NewOption("Cancelled", ledger.SaleStatusCancelled),
				).
				Value(&m.formStatus),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = ordersStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m OrdersModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = ordersStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	status, _ := m.form.Get("status").(ledger.SaleStatus)

	return m, m.saveCmd(m.orders[m.table.Cursor()].ID, status)
}

func (m OrdersModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading orders...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	dateLabels := []string{"All Time", "This Month", "Last Month"}

	header := fmt.Sprintf("Filter: [d] Date: %s | %d orders",
		activeStyle(dateLabels[m.dateFilterIdx]), len(m.orders))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == ordersStateEdit && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("Update Order\n\n%s", m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = mutedStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *OrdersModel) applyFilter() {
	now := time.Now().In(m.loc)

	switch m.dateFilterIdx {
	case 1:
		from, to := timeframeRange(TimeframeThisMonth, now)
		m.filter.From, m.filter.To = &from, &to
	case 2:
		from, to := timeframeRange(TimeframeLastMonth, now)
		m.filter.From, m.filter.To = &from, &to
	default:
		m.filter.From, m.filter.To = nil, nil
	}
}

func (m *OrdersModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.orders))

	for _, tx := range m.orders {
		at := tx.ID
		if ts, err := tx.Time(); err == nil {
			at = ts.In(m.loc).Format("2006-01-02 15:04")
		}

		customer := tx.Sale.CustomerName
		if customer == "" {
			customer = "Walk-in"
		}

		rows = append(rows, table.Row{
			at,
			customer,
			tx.Sale.Describe(),
			FormatMoney(tx.Sale.NetAmount()),
			string(tx.Sale.Status),
		})
	}

	m.table.SetRows(rows)
}

type ordersLoadedMsg struct {
	orders []*ledger.Transaction
	err    error
}

func (m OrdersModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.ledgerSvc.List(ctx, filter)
		if err != nil {
			return ordersLoadedMsg{err: err}
		}

		// Newest first.
		slices.Reverse(txs)

		return ordersLoadedMsg{orders: txs}
	}
}

type orderSavedMsg struct {
	err error
}

func (m OrdersModel) saveCmd(id string, status ledger.SaleStatus) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return orderSavedMsg{err: m.ledgerSvc.UpdateSaleStatus(ctx, id, status)}
	}
}
