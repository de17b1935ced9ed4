package csvimport_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/vyapari/internal/inventory"
	"github.com/MrJamesThe3rd/vyapari/internal/inventory/csvimport"
)

func TestParse(t *testing.T) {
	csv := ` Item Name ,Category,Quantity,Cost Price,Selling Price,Low Stock Threshold
Blue Jeans,Denim,12,"1,250.50",₹1999,5
Silk Saree,,3,800,1500 rs,
,Denim,9,100,200,1
Kurta,Ethnic,lots,abc,650,
`

	rows, err := csvimport.Parse(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, []inventory.SyncRow{
		{
			Name:              "Blue Jeans",
			Category:          "Denim",
			Quantity:          12,
			CostPrice:         decimal.RequireFromString("1250.50"),
			SellingPrice:      decimal.NewFromInt(1999),
			LowStockThreshold: 5,
		},
		{
			Name:         "Silk Saree",
			Quantity:     3,
			CostPrice:    decimal.NewFromInt(800),
			SellingPrice: decimal.NewFromInt(1500),
		},
		{
			Name:         "Kurta",
			Category:     "Ethnic",
			CostPrice:    decimal.Zero,
			SellingPrice: decimal.NewFromInt(650),
		},
	}, rows)
}

func TestParse_MissingItemColumn(t *testing.T) {
	_, err := csvimport.Parse(strings.NewReader("sku,qty\nA1,3\n"))
	assert.ErrorIs(t, err, csvimport.ErrMissingItemColumn)

	_, err = csvimport.Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, csvimport.ErrMissingItemColumn)
}
