package view

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/vyapari/internal/analytics"
	"github.com/MrJamesThe3rd/vyapari/internal/ledger"
)

type customersState int

const (
	customersStateBrowse customersState = iota
	customersStateConfirm
)

type CustomersModel struct {
	CommonModel
	engine    *analytics.Engine
	ledgerSvc *ledger.Service

	state     customersState
	table     table.Model
	periodIdx int
	report    *analytics.CustomerReport
	form      *huh.Form
	confirmed bool

	loading bool
	err     error
	status  string
}

func NewCustomersModel(engine *analytics.Engine, ledgerSvc *ledger.Service) CustomersModel {
	columns := []table.Column{
		{Title: "Name", Width: 22},
		{Title: "Phone", Width: 14},
		{Title: "Orders", Width: 7},
		{Title: "Spend", Width: 12},
		{Title: "Last Purchase", Width: 13},
		{Title: "Status", Width: 9},
		{Title: "Since", Width: 9},
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

	return CustomersModel{
		engine:    engine,
		ledgerSvc: ledgerSvc,
		table:     t,
		periodIdx: len(analytics.Periods) - 1,
		loading:   true,
	}
}

func (m CustomersModel) Title() string { return "Customers" }

func (m CustomersModel) ShortHelp() string {
	if m.state == customersStateConfirm {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | p: period | a: archive | r: refresh"
}

func (m CustomersModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m CustomersModel) period() analytics.Period {
	return analytics.Periods[m.periodIdx]
}

func (m CustomersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case customersLoadedMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.report = msg.report
			m.refreshTable()
		}

		return m, nil

	case archiveResultMsg:
		m.state = customersStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error archiving: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Archived %s", msg.name)
		m.loading = true

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 12)
		return m, nil
	}

	if m.state == customersStateConfirm {
		return m.updateConfirm(msg)
	}

	return m.updateBrowse(msg)
}

func (m CustomersModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "p":
			m.periodIdx = (m.periodIdx + 1) % len(analytics.Periods)
			m.loading = true

			return m, m.loadCmd()
		case "a":
			return m.enterConfirm()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m CustomersModel) selected() (analytics.Customer, bool) {
	idx := m.table.Cursor()
	if m.report == nil || idx < 0 || idx >= len(m.report.Customers) {
		return analytics.Customer{}, false
	}

	return m.report.Customers[idx], true
}

func (m CustomersModel) enterConfirm() (tea.Model, tea.Cmd) {
	c, ok := m.selected()
	if !ok {
		return m, nil
	}

	m.confirmed = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("archive").
				Title(fmt.Sprintf("Archive %s?", c.DisplayName)).
				Description("Archived customers drop out of the revenue totals.").
				Affirmative("Archive").
				Negative("Cancel").
				Value(&m.confirmed),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = customersStateConfirm
	m.table.Blur()

	return m, m.form.Init()
}

func (m CustomersModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = customersStateBrowse
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

	if !m.form.GetBool("archive") {
		m.state = customersStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	c, _ := m.selected()

	return m, m.archiveCmd(c)
}

func (m *CustomersModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.report.Customers))

	for _, c := range m.report.Customers {
		rows = append(rows, table.Row{
			c.DisplayName,
			c.Phone,
			strconv.Itoa(c.TotalOrders),
			FormatMoney(c.TotalSpend),
			FormatDate(c.LastPurchase),
			string(c.Status),
			c.MemberSince,
		})
	}

	m.table.SetRows(rows)
}

func (m CustomersModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading customers...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf("[p] Period: %s | %d customers | %d new in span",
		activeStyle(periodLabels[m.period()]),
		len(m.report.Customers),
		m.report.NewInSpan,
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == customersStateConfirm && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = mutedStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

type customersLoadedMsg struct {
	report *analytics.CustomerReport
	err    error
}

func (m CustomersModel) loadCmd() tea.Cmd {
	period := m.period()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		report, err := m.engine.Customers(ctx, string(period))

		return customersLoadedMsg{report: report, err: err}
	}
}

type archiveResultMsg struct {
	name string
	err  error
}

func (m CustomersModel) archiveCmd(c analytics.Customer) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.ledgerSvc.ArchiveCustomer(ctx, c.DisplayName, c.Phone)

		return archiveResultMsg{name: c.DisplayName, err: err}
	}
}
