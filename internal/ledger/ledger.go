package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("transaction not found")
	ErrInvalidSale     = errors.New("invalid sale")
	ErrInvalidExpense  = errors.New("invalid expense")
	ErrInvalidCustomer = errors.New("invalid customer")
	ErrWrongKind       = errors.New("transaction has a different kind")
)

// IDLayout is fixed width so that lexicographic order of IDs is chronological
// order, provided every ID is written in the shop's time zone.
const IDLayout = "2006-01-02T15:04:05.000Z07:00"

// Kind discriminates the payload carried by a Transaction.
type Kind string

const (
	KindSale     Kind = "Sale"
	KindExpense  Kind = "Expense"
	KindCustomer Kind = "Customer"
)

type SaleStatus string

const (
	SaleStatusConfirmed SaleStatus = "Confirmed"
	SaleStatusDelivered SaleStatus = "Delivered"
	SaleStatusCancelled SaleStatus = "Cancelled"
)

type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusArchived CustomerStatus = "archived"
)

// Transaction is one immutable entry of the shop log. Exactly one of Sale,
// Expense or Customer is set, matching Kind.
type Transaction struct {
	ID       string
	Kind     Kind
	Sale     *Sale
	Expense  *Expense
	Customer *CustomerRecord
}

// LineItem freezes the unit cost at sale time so later catalog cost changes
// never alter historical profit.
type LineItem struct {
	ProductName    string          `json:"product_name"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	UnitCostAtSale decimal.Decimal `json:"unit_cost_at_sale"`
}

type Sale struct {
	Items          []LineItem      `json:"items"`
	GrossAmount    decimal.Decimal `json:"gross_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	DiscountSpec   string          `json:"discount_spec,omitempty"`
	CustomerName   string          `json:"customer_name,omitempty"`
	CustomerPhone  string          `json:"customer_phone,omitempty"`
	Status         SaleStatus      `json:"status"`
	EnteredBy      string          `json:"entered_by,omitempty"`
}

type Expense struct {
	ExpenseID string          `json:"expense_id,omitempty"`
	Reason    string          `json:"reason"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	EnteredBy string          `json:"entered_by,omitempty"`
}

// CustomerRecord is an explicit identity entry. It only exists to archive a
// customer; sales never reference it.
type CustomerRecord struct {
	Name   string         `json:"name"`
	Phone  string         `json:"phone,omitempty"`
	Status CustomerStatus `json:"status"`
}

// NewID renders now in the given location using IDLayout.
func NewID(now time.Time, loc *time.Location) string {
	if loc != nil {
		now = now.In(loc)
	}

	return now.Format(IDLayout)
}

// Time parses the timestamp carried by the ID.
func (t *Transaction) Time() (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, t.ID)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing transaction id %q: %w", t.ID, err)
	}

	return ts, nil
}

func (t *Transaction) Validate() error {
	set := 0
	for _, present := range []bool{t.Sale != nil, t.Expense != nil, t.Customer != nil} {
		if present {
			set++
		}
	}

	if set != 1 {
		return fmt.Errorf("transaction %s: expected exactly one payload, got %d", t.ID, set)
	}

	switch t.Kind {
	case KindSale:
		if t.Sale == nil {
			return fmt.Errorf("transaction %s: %w", t.ID, ErrWrongKind)
		}
	case KindExpense:
		if t.Expense == nil {
			return fmt.Errorf("transaction %s: %w", t.ID, ErrWrongKind)
		}
	case KindCustomer:
		if t.Customer == nil {
			return fmt.Errorf("transaction %s: %w", t.ID, ErrWrongKind)
		}
	default:
		return fmt.Errorf("transaction %s: unknown kind %q", t.ID, t.Kind)
	}

	return nil
}

// NetAmount is the gross amount less the discount.
func (s *Sale) NetAmount() decimal.Decimal {
	return s.GrossAmount.Sub(s.DiscountAmount)
}

// TotalCost sums the frozen cost of every line item.
func (s *Sale) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.UnitCostAtSale.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return total
}

// Profit is NetAmount minus TotalCost.
func (s *Sale) Profit() decimal.Decimal {
	return s.NetAmount().Sub(s.TotalCost())
}

// PrimaryItem returns the first line item, if any.
func (s *Sale) PrimaryItem() (LineItem, bool) {
	if len(s.Items) == 0 {
		return LineItem{}, false
	}

	return s.Items[0], true
}

// Describe renders the items as "2 x jeans, 1 x saree".
func (s *Sale) Describe() string {
	parts := make([]string, 0, len(s.Items))
	for _, item := range s.Items {
		parts = append(parts, fmt.Sprintf("%d x %s", item.Quantity, item.ProductName))
	}

	return strings.Join(parts, ", ")
}
