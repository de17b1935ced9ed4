package main

import (
	"log/slog"
	"os"
	_ "time/tzdata"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/vyapari/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/vyapari/internal/analytics"
	"github.com/MrJamesThe3rd/vyapari/internal/config"
	"github.com/MrJamesThe3rd/vyapari/internal/database"
	"github.com/MrJamesThe3rd/vyapari/internal/export"
	"github.com/MrJamesThe3rd/vyapari/internal/inventory"
	inventoryStore "github.com/MrJamesThe3rd/vyapari/internal/inventory/store"
	"github.com/MrJamesThe3rd/vyapari/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/vyapari/internal/ledger/store"
)

// enteredBy tags records created from the terminal.
const enteredBy = "Terminal"

type model struct {
	engine           *analytics.Engine
	ledgerService    *ledger.Service
	inventoryService *inventory.Service
	exportService    *export.Service
	cfg              *config.Config

	currentView View

	dashboardView view.DashboardModel
	customersView view.CustomersModel
	ordersView    view.OrdersModel
	expenseView   view.ExpenseModel
	exportView    view.ExportModel
	importView    view.ImportModel
}

type View int

const (
	ViewMenu      View = 0
	ViewDashboard View = 1
	ViewCustomers View = 2
	ViewOrders    View = 3
	ViewExpense   View = 4
	ViewExport    View = 5
	ViewImport    View = 6
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), database.Options{MaxOpenConns: cfg.DB.MaxConns})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	loc := cfg.Location()

	invSvc := inventory.NewService(inventoryStore.New(db), cfg.Shop.LowStockThreshold)
	ledgerSvc := ledger.NewService(ledgerStore.New(db), invSvc, loc)
	expSvc := export.NewService(ledgerSvc, loc)
	engine := analytics.NewEngine(ledgerSvc, invSvc, loc, analytics.Period(cfg.Shop.DefaultPeriod))

	return model{
		engine:           engine,
		ledgerService:    ledgerSvc,
		inventoryService: invSvc,
		exportService:    expSvc,
		cfg:              cfg,
		currentView:      ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.engine, analytics.Period(m.cfg.Shop.DefaultPeriod))

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewCustomers
				m.customersView = view.NewCustomersModel(m.engine, m.ledgerService)

				return m, m.customersView.Init()
			case "3":
				m.currentView = ViewOrders
				m.ordersView = view.NewOrdersModel(m.ledgerService, m.cfg.Location())

				return m, m.ordersView.Init()
			case "4":
				m.currentView = ViewExpense
				m.expenseView = view.NewExpenseModel(m.ledgerService, enteredBy)

				return m, m.expenseView.Init()
			case "5":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService, m.cfg.Location())

				return m, m.exportView.Init()
			case "6":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.inventoryService)

				return m, m.importView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewCustomers:
		var newModel tea.Model
		newModel, cmd = m.customersView.Update(msg)
		m.customersView = newModel.(view.CustomersModel)
	case ViewOrders:
		var newModel tea.Model
		newModel, cmd = m.ordersView.Update(msg)
		m.ordersView = newModel.(view.OrdersModel)
	case ViewExpense:
		var newModel tea.Model
		newModel, cmd = m.expenseView.Update(msg)
		m.expenseView = newModel.(view.ExpenseModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.cfg.App.Name + " TUI\n\n" +
				"1. Dashboard\n" +
				"2. Customers\n" +
				"3. Orders\n" +
				"4. Record Expense\n" +
				"5. Export Expenses\n" +
				"6. Import Stock Catalog\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewCustomers:
		return m.customersView.View()
	case ViewOrders:
		return m.ordersView.View()
	case ViewExpense:
		return m.expenseView.View()
	case ViewExport:
		return m.exportView.View()
	case ViewImport:
		return m.importView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
