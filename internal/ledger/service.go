package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vyapari/internal/inventory"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	Append(ctx context.Context, tx *Transaction) error
	Get(ctx context.Context, id string) (*Transaction, error)
	List(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	Update(ctx context.Context, tx *Transaction) error
	Delete(ctx context.Context, id string) error
	// LastExpenseNumber returns the highest NNN among stored EXP-NNN ids, or 0.
	LastExpenseNumber(ctx context.Context) (int, error)
}

// Stock is the part of the inventory catalog a sale touches.
type Stock interface {
	Find(ctx context.Context, name string) (*inventory.Item, error)
	AdjustStock(ctx context.Context, name string, soldQty int) (string, error)
	Restock(ctx context.Context, name string, qty int) error
}

// ListFilter bounds are half-open: From <= t < To.
type ListFilter struct {
	Kind *Kind
	From *time.Time
	To   *time.Time
}

type Service struct {
	repo  Repository
	stock Stock
	loc   *time.Location
	now   func() time.Time

	mu     sync.Mutex
	lastID time.Time
}

func NewService(repo Repository, stock Stock, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}

	return &Service{repo: repo, stock: stock, loc: loc, now: time.Now}
}

// WithClock replaces the wall clock used to stamp new records.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// nextID never hands out the same millisecond twice within a process.
func (s *Service) nextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.now().In(s.loc).Truncate(time.Millisecond)
	if !t.After(s.lastID) {
		t = s.lastID.Add(time.Millisecond)
	}

	s.lastID = t

	return NewID(t, s.loc)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.List(ctx, filter)
}

// ListAll returns every record of every kind.
func (s *Service) ListAll(ctx context.Context) ([]*Transaction, error) {
	txs, err := s.repo.List(ctx, ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	return txs, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Transaction, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

type SaleParams struct {
	Item string
	Qty  int
	// Exactly one of Rate (per unit) and Total is expected; Rate wins when
	// both are set.
	Rate          *decimal.Decimal
	Total         *decimal.Decimal
	Discount      string
	CustomerName  string
	CustomerPhone string
	EnteredBy     string
}

type SaleResult struct {
	Transaction *Transaction
	// StockAlert is set when the sale pushed the item to its reorder point.
	StockAlert string
}

func (s *Service) RecordSale(ctx context.Context, params SaleParams) (*SaleResult, error) {
	name := strings.TrimSpace(params.Item)

	switch {
	case name == "":
		return nil, fmt.Errorf("%w: item is required", ErrInvalidSale)
	case params.Qty <= 0:
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidSale)
	case params.Rate == nil && params.Total == nil:
		return nil, fmt.Errorf("%w: rate or total is required", ErrInvalidSale)
	}

	item, err := s.stock.Find(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("finding item %q: %w", name, err)
	}

	qty := decimal.NewFromInt(int64(params.Qty))

	var unitPrice, gross decimal.Decimal

	if params.Rate != nil {
		unitPrice = *params.Rate
		gross = unitPrice.Mul(qty)
	} else {
		gross = *params.Total
		unitPrice = gross.Div(qty).Round(2)
	}

	if gross.IsNegative() {
		return nil, fmt.Errorf("%w: negative amount", ErrInvalidSale)
	}

	tx := &Transaction{
		ID:   s.nextID(),
		Kind: KindSale,
		Sale: &Sale{
			Items: []LineItem{{
				ProductName:    item.Name,
				Quantity:       params.Qty,
				UnitPrice:      unitPrice,
				UnitCostAtSale: item.CostPrice,
			}},
			GrossAmount:    gross,
			DiscountAmount: ParseDiscount(params.Discount, gross),
			DiscountSpec:   strings.TrimSpace(params.Discount),
			CustomerName:   strings.TrimSpace(params.CustomerName),
			CustomerPhone:  strings.TrimSpace(params.CustomerPhone),
			Status:         SaleStatusConfirmed,
			EnteredBy:      params.EnteredBy,
		},
	}

	if err := s.repo.Append(ctx, tx); err != nil {
		return nil, fmt.Errorf("appending sale: %w", err)
	}

	alert, err := s.stock.AdjustStock(ctx, item.Name, params.Qty)
	if err != nil {
		slog.Warn("failed to adjust stock after sale", "id", tx.ID, "item", item.Name, "error", err)
	}

	return &SaleResult{Transaction: tx, StockAlert: alert}, nil
}

type ExpenseParams struct {
	Reason    string
	Category  string
	Amount    decimal.Decimal
	EnteredBy string
}

func (p ExpenseParams) validate() error {
	if strings.TrimSpace(p.Reason) == "" {
		return fmt.Errorf("%w: reason is required", ErrInvalidExpense)
	}

	if !p.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidExpense)
	}

	return nil
}

func (p ExpenseParams) category() string {
	if c := strings.TrimSpace(p.Category); c != "" {
		return c
	}

	return inventory.DefaultCategory
}

// RecordExpense stores an expense under the number after the highest one in
// use, so deleting an expense never frees its id for reuse.
func (s *Service) RecordExpense(ctx context.Context, params ExpenseParams) (*Transaction, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	last, err := s.repo.LastExpenseNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading last expense number: %w", err)
	}

	tx := &Transaction{
		ID:   s.nextID(),
		Kind: KindExpense,
		Expense: &Expense{
			ExpenseID: fmt.Sprintf("EXP-%03d", last+1),
			Reason:    strings.TrimSpace(params.Reason),
			Category:  params.category(),
			Amount:    params.Amount,
			EnteredBy: params.EnteredBy,
		},
	}

	if err := s.repo.Append(ctx, tx); err != nil {
		return nil, fmt.Errorf("appending expense: %w", err)
	}

	return tx, nil
}

func (s *Service) getKind(ctx context.Context, id string, kind Kind) (*Transaction, error) {
	tx, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if tx.Kind != kind {
		return nil, fmt.Errorf("%s is a %s: %w", id, tx.Kind, ErrWrongKind)
	}

	return tx, nil
}

func (s *Service) UpdateExpense(ctx context.Context, id string, params ExpenseParams) (*Transaction, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	tx, err := s.getKind(ctx, id, KindExpense)
	if err != nil {
		return nil, err
	}

	tx.Expense.Reason = strings.TrimSpace(params.Reason)
	tx.Expense.Category = params.category()
	tx.Expense.Amount = params.Amount

	if err := s.repo.Update(ctx, tx); err != nil {
		return nil, fmt.Errorf("updating expense: %w", err)
	}

	return tx, nil
}

func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	if _, err := s.getKind(ctx, id, KindExpense); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) UpdateSaleStatus(ctx context.Context, id string, status SaleStatus) error {
	switch status {
	case SaleStatusConfirmed, SaleStatusDelivered, SaleStatusCancelled:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidSale, status)
	}

	tx, err := s.getKind(ctx, id, KindSale)
	if err != nil {
		return err
	}

	tx.Sale.Status = status

	if err := s.repo.Update(ctx, tx); err != nil {
		return fmt.Errorf("updating sale status: %w", err)
	}

	return nil
}

// DeleteSale puts the sold units back on the shelf and removes the record.
// Items that left the catalog since are skipped.
func (s *Service) DeleteSale(ctx context.Context, id string) error {
	tx, err := s.getKind(ctx, id, KindSale)
	if err != nil {
		return err
	}

	for _, item := range tx.Sale.Items {
		err := s.stock.Restock(ctx, item.ProductName, item.Quantity)
		if errors.Is(err, inventory.ErrItemNotFound) {
			slog.Warn("restock skipped, item no longer in catalog", "id", id, "item", item.ProductName)
			continue
		}

		if err != nil {
			return fmt.Errorf("restocking %q: %w", item.ProductName, err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting sale: %w", err)
	}

	return nil
}

// ArchiveCustomer hides a customer identity from every customer view.
func (s *Service) ArchiveCustomer(ctx context.Context, name, phone string) (*Transaction, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidCustomer)
	}

	tx := &Transaction{
		ID:   s.nextID(),
		Kind: KindCustomer,
		Customer: &CustomerRecord{
			Name:   name,
			Phone:  strings.TrimSpace(phone),
			Status: CustomerStatusArchived,
		},
	}

	if err := s.repo.Append(ctx, tx); err != nil {
		return nil, fmt.Errorf("appending customer record: %w", err)
	}

	return tx, nil
}
