package order

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vyapari/internal/ledger"
)

type lineItemResponse struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type orderResponse struct {
	ID             string             `json:"id"`
	Items          []lineItemResponse `json:"items"`
	Summary        string             `json:"summary"`
	GrossAmount    decimal.Decimal    `json:"gross_amount"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	NetAmount      decimal.Decimal    `json:"net_amount"`
	CustomerName   string             `json:"customer_name,omitempty"`
	CustomerPhone  string             `json:"customer_phone,omitempty"`
	Status         ledger.SaleStatus  `json:"status"`
	EnteredBy      string             `json:"entered_by,omitempty"`
}

func toResponse(tx *ledger.Transaction) orderResponse {
	s := tx.Sale

	resp := orderResponse{
		ID:             tx.ID,
		Items:          make([]lineItemResponse, 0, len(s.Items)),
		Summary:        s.Describe(),
		GrossAmount:    s.GrossAmount,
		DiscountAmount: s.DiscountAmount,
		NetAmount:      s.NetAmount(),
		CustomerName:   s.CustomerName,
		CustomerPhone:  s.CustomerPhone,
		Status:         s.Status,
		EnteredBy:      s.EnteredBy,
	}

	for _, item := range s.Items {
		resp.Items = append(resp.Items, lineItemResponse{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	return resp
}

// toResponseList returns the newest orders first.
func toResponseList(txs []*ledger.Transaction) []orderResponse {
	resp := make([]orderResponse, 0, len(txs))

	for i := len(txs) - 1; i >= 0; i-- {
		if txs[i].Sale == nil {
			continue
		}

		resp = append(resp, toResponse(txs[i]))
	}

	return resp
}
