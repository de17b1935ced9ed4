package store_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/vyapari/internal/ledger"
	"github.com/MrJamesThe3rd/vyapari/internal/ledger/store"
)

func newStore(t *testing.T) (*store.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return store.New(db), mock
}

func TestStore_Append(t *testing.T) {
	s, mock := newStore(t)

	tx := &ledger.Transaction{
		ID:   "2025-03-14T10:30:00.000+05:30",
		Kind: ledger.KindExpense,
		Expense: &ledger.Expense{
			ExpenseID: "EXP-001",
			Reason:    "rent",
			Category:  "Rent",
			Amount:    decimal.NewFromInt(300),
		},
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO transactions")).
		WithArgs(tx.ID, "Expense",
			[]byte(`{"expense_id":"EXP-001","reason":"rent","category":"Rent","amount":"300"}`),
			sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Append(context.Background(), tx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Append_RejectsMismatchedPayload(t *testing.T) {
	s, mock := newStore(t)

	err := s.Append(context.Background(), &ledger.Transaction{
		ID:      "2025-03-14T10:30:00.000+05:30",
		Kind:    ledger.KindSale,
		Expense: &ledger.Expense{},
	})
	assert.ErrorIs(t, err, ledger.ErrWrongKind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_List(t *testing.T) {
	s, mock := newStore(t)

	ist := time.FixedZone("IST", 19800)
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, ist)
	to := time.Date(2025, 4, 1, 0, 0, 0, 0, ist)
	kind := ledger.KindSale

	rows := sqlmock.NewRows([]string{"id", "kind", "payload"}).
		AddRow("2025-03-14T10:30:00.000+05:30", "Sale",
			[]byte(`{"items":[{"product_name":"Jeans","quantity":2,"unit_price":"1000","unit_cost_at_sale":"600"}],`+
				`"gross_amount":"2000","discount_amount":"200","customer_name":"Suresh K","status":"Confirmed"}`))

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, kind, payload FROM transactions WHERE TRUE AND kind = $1 AND occurred_at >= $2 AND occurred_at < $3 ORDER BY id ASC")).
		WithArgs("Sale", from, to).
		WillReturnRows(rows)

	got, err := s.List(context.Background(), ledger.ListFilter{Kind: &kind, From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, got, 1)

	sale := got[0].Sale
	require.NotNil(t, sale)
	assert.Equal(t, ledger.KindSale, got[0].Kind)
	assert.Equal(t, "Suresh K", sale.CustomerName)
	assert.True(t, sale.Profit().Equal(decimal.NewFromInt(600)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_List_SkipsMalformedPayload(t *testing.T) {
	s, mock := newStore(t)

	rows := sqlmock.NewRows([]string{"id", "kind", "payload"}).
		AddRow("2025-03-14T10:30:00.000+05:30", "Sale",
			[]byte(`{"items":[{"product_name":"Jeans","quantity":2,"unit_price":"1000","unit_cost_at_sale":"600"}],`+
				`"gross_amount":"2000","discount_amount":"0","status":"Confirmed"}`)).
		AddRow("2025-03-14T11:30:00.000+05:30", "Sale",
			[]byte(`{"items":[{"product_name":"Saree","quantity":"2"}],"gross_amount":"900","status":"Confirmed"}`)).
		AddRow("2025-03-14T12:30:00.000+05:30", "Refund", []byte(`{}`))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, kind, payload FROM transactions WHERE TRUE ORDER BY id ASC")).
		WillReturnRows(rows)

	got, err := s.List(context.Background(), ledger.ListFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2025-03-14T10:30:00.000+05:30", got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_List_ScanErrorIsFatal(t *testing.T) {
	s, mock := newStore(t)

	rows := sqlmock.NewRows([]string{"id", "kind"}).
		AddRow("2025-03-14T10:30:00.000+05:30", "Sale")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, kind, payload FROM transactions")).
		WillReturnRows(rows)

	_, err := s.List(context.Background(), ledger.ListFilter{})
	assert.Error(t, err)
}

func TestStore_Get_NotFound(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, kind, payload FROM transactions WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "kind", "payload"}))

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestStore_Delete_NotFound(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM transactions WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.Delete(context.Background(), "missing"), ledger.ErrNotFound)
}

func TestStore_LastExpenseNumber(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(CAST(SUBSTRING(payload->>'expense_id' FROM 5) AS INTEGER)), 0)")).
		WithArgs("Expense").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(9))

	n, err := s.LastExpenseNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
