package view

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vyapari/internal/ledger"
)

var expenseCategories = []string{"Rent", "Salary", "Utilities", "Stock", "Transport", "Uncategorized"}

type expenseState int

const (
	expenseStateForm expenseState = iota
	expenseStateSaving
	expenseStateResult
)

type ExpenseModel struct {
	CommonModel
	ledgerSvc *ledger.Service
	enteredBy string

	state  expenseState
	form   *huh.Form
	result *ledger.Transaction
	err    error

	// Form bindings
	reason   string
	category string
	amount   string
}

func NewExpenseModel(ledgerSvc *ledger.Service, enteredBy string) ExpenseModel {
	m := ExpenseModel{
		ledgerSvc: ledgerSvc,
		enteredBy: enteredBy,
		category:  "Uncategorized",
	}
	m.form = m.buildForm()

	return m
}

func (m ExpenseModel) Title() string { return "Record Expense" }

func (m ExpenseModel) ShortHelp() string {
	if m.state == expenseStateResult {
		return "Esc: back to menu | n: record another"
	}

	return "Esc: back | Enter: next"
}

func (m ExpenseModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExpenseModel) buildForm() *huh.Form {
	options := make([]huh.Option[string], 0, len(expenseCategories))
	for _, c := range expenseCategories {
		options = append(options, huh.NewOption(c, c))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("reason").
				Title("Item / Reason").
				Placeholder("Shop rent").
				Value(&m.reason).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("reason cannot be empty")
					}

					return nil
				}),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(options...).
				Value(&m.category),

			huh.NewInput().
				Key("amount").
				Title("Amount (₹)").
				Placeholder("300.00").
				Value(&m.amount).
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil || !d.IsPositive() {
						return errors.New("enter a positive amount")
					}

					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExpenseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(expenseSavedMsg); ok {
		m.state = expenseStateResult
		m.result = result.tx
		m.err = result.err

		return m, nil
	}

	keyMsg, isKey := msg.(tea.KeyMsg)

	switch m.state {
	case expenseStateForm:
		if isKey && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State != huh.StateCompleted {
			return m, cmd
		}

		m.state = expenseStateSaving

		return m, m.saveCmd(
			m.form.GetString("reason"),
			m.form.GetString("category"),
			m.form.GetString("amount"),
		)

	case expenseStateResult:
		if !isKey {
			return m, nil
		}

		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "n":
			fresh := NewExpenseModel(m.ledgerSvc, m.enteredBy)
			return fresh, fresh.Init()
		}
	}

	return m, nil
}

func (m ExpenseModel) View() string {
	switch m.state {
	case expenseStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case expenseStateSaving:
		return lipgloss.NewStyle().Padding(1).Render("Saving expense...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	e := m.result.Expense

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			successStyle.Render("Expense recorded"),
			"",
			fmt.Sprintf("%s | %s | %s | %s", e.ExpenseID, e.Reason, e.Category, FormatMoney(e.Amount)),
		),
	)
}

type expenseSavedMsg struct {
	tx  *ledger.Transaction
	err error
}

func (m ExpenseModel) saveCmd(reason, category, amount string) tea.Cmd {
	return func() tea.Msg {
		value, err := decimal.NewFromString(strings.TrimSpace(amount))
		if err != nil {
			return expenseSavedMsg{err: fmt.Errorf("parsing amount: %w", err)}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		tx, err := m.ledgerSvc.RecordExpense(ctx, ledger.ExpenseParams{
			Reason:    reason,
			Category:  category,
			Amount:    value,
			EnteredBy: m.enteredBy,
		})

		return expenseSavedMsg{tx: tx, err: err}
	}
}
