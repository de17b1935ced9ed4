package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=inventory
type Repository interface {
	ListItems(ctx context.Context) ([]*Item, error)
	GetItem(ctx context.Context, name string) (*Item, error)
	CreateItem(ctx context.Context, item *Item) error
	// AddQuantity adds delta to the stored quantity and returns the updated item.
	AddQuantity(ctx context.Context, name string, delta int, soldAt *time.Time) (*Item, error)
}

type Service struct {
	repo             Repository
	defaultThreshold int
	now              func() time.Time
}

func NewService(repo Repository, defaultThreshold int) *Service {
	if defaultThreshold < 1 {
		defaultThreshold = 10
	}

	return &Service{repo: repo, defaultThreshold: defaultThreshold, now: time.Now}
}

// SyncRow is one parsed catalog line.
type SyncRow struct {
	Name              string
	Category          string
	Quantity          int
	CostPrice         decimal.Decimal
	SellingPrice      decimal.Decimal
	LowStockThreshold int
}

type SyncResult struct {
	Created int
	Updated int
}

func (s *Service) withDefaults(item *Item) *Item {
	if item.LowStockThreshold <= 0 {
		item.LowStockThreshold = s.defaultThreshold
	}

	return item
}

// Snapshot returns the whole catalog.
func (s *Service) Snapshot(ctx context.Context) ([]*Item, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}

	for _, item := range items {
		s.withDefaults(item)
	}

	return items, nil
}

func (s *Service) LowStock(ctx context.Context) ([]*Item, error) {
	items, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var low []*Item

	for _, item := range items {
		if item.IsLow() {
			low = append(low, item)
		}
	}

	return low, nil
}

// LowStockReport renders the low stock items as text. It is empty when
// nothing needs reordering.
func (s *Service) LowStockReport(ctx context.Context) (string, error) {
	low, err := s.LowStock(ctx)
	if err != nil {
		return "", err
	}

	if len(low) == 0 {
		return "", nil
	}

	var b strings.Builder

	b.WriteString("LOW STOCK REPORT\n")

	for _, item := range low {
		fmt.Fprintf(&b, "- %s: %d left (reorder at %d)\n", item.Name, item.Quantity, item.LowStockThreshold)
	}

	return b.String(), nil
}

func (s *Service) Find(ctx context.Context, name string) (*Item, error) {
	item, err := s.repo.GetItem(ctx, Key(name))
	if err != nil {
		return nil, err
	}

	return s.withDefaults(item), nil
}

// AdjustStock removes soldQty units. The returned alert is non-empty only
// when this sale takes the item from above its threshold to at or below it.
func (s *Service) AdjustStock(ctx context.Context, name string, soldQty int) (string, error) {
	soldAt := s.now()

	item, err := s.repo.AddQuantity(ctx, Key(name), -soldQty, &soldAt)
	if err != nil {
		return "", fmt.Errorf("adjusting stock for %q: %w", name, err)
	}

	s.withDefaults(item)

	previous := item.Quantity + soldQty
	if soldQty > 0 && previous > item.LowStockThreshold && item.IsLow() {
		return fmt.Sprintf("LOW STOCK ALERT: only %d units of '%s' remaining.", item.Quantity, item.Name), nil
	}

	return "", nil
}

// Restock puts qty units back, e.g. when a sale is deleted.
func (s *Service) Restock(ctx context.Context, name string, qty int) error {
	if _, err := s.repo.AddQuantity(ctx, Key(name), qty, nil); err != nil {
		return fmt.Errorf("restocking %q: %w", name, err)
	}

	return nil
}

// Sync merges catalog rows: known items gain the row quantity, unknown items
// are created.
func (s *Service) Sync(ctx context.Context, rows []SyncRow) (*SyncResult, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}

	known := make(map[string]bool, len(items))
	for _, item := range items {
		known[Key(item.Name)] = true
	}

	result := &SyncResult{}

	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			continue
		}

		if known[Key(name)] {
			if _, err := s.repo.AddQuantity(ctx, Key(name), row.Quantity, nil); err != nil {
				return nil, fmt.Errorf("updating %q: %w", name, err)
			}

			result.Updated++

			continue
		}

		category := strings.TrimSpace(row.Category)
		if category == "" {
			category = DefaultCategory
		}

		item := s.withDefaults(&Item{
			Name:              name,
			Category:          category,
			Quantity:          row.Quantity,
			CostPrice:         row.CostPrice,
			SellingPrice:      row.SellingPrice,
			LowStockThreshold: row.LowStockThreshold,
		})
		if err := s.repo.CreateItem(ctx, item); err != nil {
			return nil, fmt.Errorf("creating %q: %w", name, err)
		}

		known[Key(name)] = true
		result.Created++
	}

	return result, nil
}
