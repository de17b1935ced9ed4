package inventory

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrItemNotFound = errors.New("inventory item not found")

// DefaultCategory is assigned to synced items that carry no category.
const DefaultCategory = "Uncategorized"

// Item is one catalog entry. Name is unique case-insensitively.
type Item struct {
	Name              string
	Category          string
	Quantity          int
	CostPrice         decimal.Decimal
	SellingPrice      decimal.Decimal
	LowStockThreshold int
	LastSoldAt        *time.Time
	UpdatedAt         time.Time
}

// IsLow reports whether the quantity is at or below the reorder point.
func (i *Item) IsLow() bool {
	return i.Quantity <= i.LowStockThreshold
}

// Key is the normalized lookup name.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
