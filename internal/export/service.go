package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vyapari/internal/ledger"
)

// Header is the first line of every expense CSV.
var Header = []string{"Expense ID", "Date", "Item/Reason", "Category", "Amount"}

// Row is a single exported expense.
type Row struct {
	ID        string
	ExpenseID string
	Date      time.Time
	Reason    string
	Category  string
	Amount    decimal.Decimal
}

// Service handles the export of recorded expenses.
type Service struct {
	ledger *ledger.Service
	loc    *time.Location
}

func NewService(ledgerSvc *ledger.Service, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}

	return &Service{ledger: ledgerSvc, loc: loc}
}

// Expenses lists expenses recorded in [from, to). Nil bounds are open.
func (s *Service) Expenses(ctx context.Context, from, to *time.Time) ([]Row, error) {
	txs, err := s.ledger.List(ctx, ledger.ListFilter{Kind: new(ledger.KindExpense), From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	rows := make([]Row, 0, len(txs))

	for _, tx := range txs {
		if tx.Expense == nil {
			continue
		}

		at, err := tx.Time()
		if err != nil {
			return nil, err
		}

		rows = append(rows, Row{
			ID:        tx.ID,
			ExpenseID: tx.Expense.ExpenseID,
			Date:      at.In(s.loc),
			Reason:    tx.Expense.Reason,
			Category:  tx.Expense.Category,
			Amount:    tx.Expense.Amount,
		})
	}

	return rows, nil
}

// WriteCSV writes rows with Header. Records without a human id fall back to
// the ledger id.
func (s *Service) WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, row := range rows {
		id := row.ExpenseID
		if id == "" {
			id = row.ID
		}

		record := []string{id, row.Date.Format(time.DateOnly), row.Reason, row.Category, row.Amount.StringFixed(2)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing %s: %w", id, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// SaveCSV exports expenses in [from, to) to a dated file inside dir, creating
// the directory when needed. It returns the written path and rows.
func (s *Service) SaveCSV(ctx context.Context, from, to *time.Time, dir string) (string, []Row, error) {
	rows, err := s.Expenses(ctx, from, to)
	if err != nil {
		return "", nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("creating export directory: %w", err)
	}

	path := filepath.Join(dir, FileName(time.Now().In(s.loc)))

	f, err := os.Create(path)
	if err != nil {
		return "", nil, fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := s.WriteCSV(f, rows); err != nil {
		return "", nil, err
	}

	return path, rows, nil
}

// FileName is the download name of an export generated at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("expenses_%s.csv", t.Format("20060102"))
}

// Summary renders one line per expense followed by the total.
func (s *Service) Summary(rows []Row) string {
	var sb strings.Builder

	total := decimal.Zero

	for _, row := range rows {
		fmt.Fprintf(&sb, "* %s | %s | %s | ₹%s\n",
			row.Date.Format(time.DateOnly), row.Reason, row.Category, row.Amount.StringFixed(2))

		total = total.Add(row.Amount)
	}

	fmt.Fprintf(&sb, "Total: ₹%s\n", total.StringFixed(2))

	return sb.String()
}
