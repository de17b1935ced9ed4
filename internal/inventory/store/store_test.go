package store_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/vyapari/internal/inventory"
	"github.com/MrJamesThe3rd/vyapari/internal/inventory/store"
)

var itemColumns = []string{
	"name", "category", "quantity", "cost_price", "selling_price", "low_stock_threshold", "last_sold_at", "updated_at",
}

func TestStore_AddQuantity(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	soldAt := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE inventory_items")).
		WithArgs(-2, soldAt, "blue jeans").
		WillReturnRows(sqlmock.NewRows(itemColumns).
			AddRow("Blue Jeans", "Denim", 8, "600.00", "1200.00", 10, soldAt, soldAt))

	item, err := store.New(db).AddQuantity(context.Background(), " Blue Jeans", -2, &soldAt)
	require.NoError(t, err)

	assert.Equal(t, "Blue Jeans", item.Name)
	assert.Equal(t, 8, item.Quantity)
	assert.Equal(t, "600", item.CostPrice.String())
	require.NotNil(t, item.LastSoldAt)
	assert.True(t, item.IsLow())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetItem_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM inventory_items WHERE name_key = $1")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(itemColumns))

	_, err = store.New(db).GetItem(context.Background(), "Ghost")
	assert.ErrorIs(t, err, inventory.ErrItemNotFound)
}
