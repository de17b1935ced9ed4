package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/vyapari/internal/inventory"
	"github.com/MrJamesThe3rd/vyapari/internal/ledger"
)

var ist = time.FixedZone("IST", 19800)

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2025, 3, 14, 10, 30, 0, 0, ist) }
}

func newService(ctrl *gomock.Controller) (*ledger.Service, *ledger.MockRepository, *ledger.MockStock) {
	repo := ledger.NewMockRepository(ctrl)
	stock := ledger.NewMockStock(ctrl)

	return ledger.NewService(repo, stock, ist).WithClock(fixedClock()), repo, stock
}

func TestService_RecordSale(t *testing.T) {
	type args struct {
		params ledger.SaleParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(repo *ledger.MockRepository, stock *ledger.MockStock)
		wantSale  *ledger.Sale
		wantAlert string
		wantErr   error
	}

	jeans := &inventory.Item{Name: "Jeans", CostPrice: decimal.NewFromInt(1000)}

	tests := []testCase{
		{
			name: "RateWithPercentDiscount",
			args: args{params: ledger.SaleParams{
				Item:          " jeans ",
				Qty:           2,
				Rate:          new(decimal.NewFromInt(1000)),
				Discount:      "10%",
				CustomerName:  "Suresh K",
				CustomerPhone: "98765 43210",
				EnteredBy:     "Dashboard",
			}},
			setupMock: func(repo *ledger.MockRepository, stock *ledger.MockStock) {
				stock.EXPECT().Find(gomock.Any(), "jeans").Return(jeans, nil)
				repo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
				stock.EXPECT().AdjustStock(gomock.Any(), "Jeans", 2).Return("LOW STOCK ALERT", nil)
			},
			wantSale: &ledger.Sale{
				Items: []ledger.LineItem{{
					ProductName:    "Jeans",
					Quantity:       2,
					UnitPrice:      decimal.NewFromInt(1000),
					UnitCostAtSale: decimal.NewFromInt(1000),
				}},
				GrossAmount:    decimal.NewFromInt(2000),
				DiscountAmount: decimal.NewFromInt(200),
				DiscountSpec:   "10%",
				CustomerName:   "Suresh K",
				CustomerPhone:  "98765 43210",
				Status:         ledger.SaleStatusConfirmed,
				EnteredBy:      "Dashboard",
			},
			wantAlert: "LOW STOCK ALERT",
		},
		{
			name: "TotalSplitsIntoUnitPrice",
			args: args{params: ledger.SaleParams{
				Item:     "jeans",
				Qty:      3,
				Total:    new(decimal.NewFromInt(1000)),
				Discount: "50rs",
			}},
			setupMock: func(repo *ledger.MockRepository, stock *ledger.MockStock) {
				stock.EXPECT().Find(gomock.Any(), "jeans").Return(jeans, nil)
				repo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
				stock.EXPECT().AdjustStock(gomock.Any(), "Jeans", 3).Return("", errors.New("db blip"))
			},
			wantSale: &ledger.Sale{
				Items: []ledger.LineItem{{
					ProductName:    "Jeans",
					Quantity:       3,
					UnitPrice:      decimal.RequireFromString("333.33"),
					UnitCostAtSale: decimal.NewFromInt(1000),
				}},
				GrossAmount:    decimal.NewFromInt(1000),
				DiscountAmount: decimal.NewFromInt(50),
				DiscountSpec:   "50rs",
				Status:         ledger.SaleStatusConfirmed,
			},
		},
		{
			name:    "MissingPrice",
			args:    args{params: ledger.SaleParams{Item: "jeans", Qty: 1}},
			wantErr: ledger.ErrInvalidSale,
		},
		{
			name:    "ZeroQuantity",
			args:    args{params: ledger.SaleParams{Item: "jeans", Rate: new(decimal.NewFromInt(5))}},
			wantErr: ledger.ErrInvalidSale,
		},
		{
			name: "UnknownItem",
			args: args{params: ledger.SaleParams{Item: "ghost", Qty: 1, Rate: new(decimal.NewFromInt(5))}},
			setupMock: func(repo *ledger.MockRepository, stock *ledger.MockStock) {
				stock.EXPECT().Find(gomock.Any(), "ghost").Return(nil, inventory.ErrItemNotFound)
			},
			wantErr: inventory.ErrItemNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			svc, repo, stock := newService(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo, stock)
			}

			got, err := svc.RecordSale(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "2025-03-14T10:30:00.000+05:30", got.Transaction.ID)
			assert.Equal(t, ledger.KindSale, got.Transaction.Kind)
			assert.Equal(t, tt.wantSale, got.Transaction.Sale)
			assert.Equal(t, tt.wantAlert, got.StockAlert)
			assert.NoError(t, got.Transaction.Validate())
		})
	}
}

func TestService_RecordExpense(t *testing.T) {
	ctrl := gomock.NewController(t)

	svc, repo, _ := newService(ctrl)

	repo.EXPECT().LastExpenseNumber(gomock.Any()).Return(6, nil)
	repo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

	got, err := svc.RecordExpense(context.Background(), ledger.ExpenseParams{
		Reason: " Shop rent ",
		Amount: decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	assert.Equal(t, &ledger.Expense{
		ExpenseID: "EXP-007",
		Reason:    "Shop rent",
		Category:  "Uncategorized",
		Amount:    decimal.NewFromInt(300),
	}, got.Expense)

	_, err = svc.RecordExpense(context.Background(), ledger.ExpenseParams{Reason: "tea"})
	assert.ErrorIs(t, err, ledger.ErrInvalidExpense)
}

func TestService_RecordExpense_Numbering(t *testing.T) {
	type testCase struct {
		name    string
		last    int
		lastErr error
		wantID  string
	}

	tests := []testCase{
		{name: "FirstExpense", last: 0, wantID: "EXP-001"},
		// EXP-002..EXP-011 deleted: only EXP-001 and EXP-012 remain.
		{name: "AfterDeletions", last: 12, wantID: "EXP-013"},
		{name: "PastThreeDigits", last: 999, wantID: "EXP-1000"},
		{name: "LookupFails", lastErr: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			svc, repo, _ := newService(ctrl)

			repo.EXPECT().LastExpenseNumber(gomock.Any()).Return(tt.last, tt.lastErr)
			if tt.lastErr == nil {
				repo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
			}

			got, err := svc.RecordExpense(context.Background(), ledger.ExpenseParams{
				Reason: "tea",
				Amount: decimal.NewFromInt(20),
			})

			if tt.lastErr != nil {
				assert.ErrorIs(t, err, tt.lastErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.Expense.ExpenseID)
		})
	}
}

func TestService_IDsAreStrictlyIncreasing(t *testing.T) {
	ctrl := gomock.NewController(t)

	svc, repo, _ := newService(ctrl)

	repo.EXPECT().LastExpenseNumber(gomock.Any()).Return(0, nil).Times(2)
	repo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	params := ledger.ExpenseParams{Reason: "tea", Amount: decimal.NewFromInt(20)}

	first, err := svc.RecordExpense(context.Background(), params)
	require.NoError(t, err)

	second, err := svc.RecordExpense(context.Background(), params)
	require.NoError(t, err)

	assert.Less(t, first.ID, second.ID)
	assert.Equal(t, "2025-03-14T10:30:00.001+05:30", second.ID)
}

func TestService_DeleteSale(t *testing.T) {
	ctrl := gomock.NewController(t)

	svc, repo, stock := newService(ctrl)

	sale := &ledger.Transaction{
		ID:   "2025-03-14T09:00:00.000+05:30",
		Kind: ledger.KindSale,
		Sale: &ledger.Sale{Items: []ledger.LineItem{
			{ProductName: "Jeans", Quantity: 2},
			{ProductName: "Retired", Quantity: 1},
		}},
	}

	gomock.InOrder(
		repo.EXPECT().Get(gomock.Any(), sale.ID).Return(sale, nil),
		stock.EXPECT().Restock(gomock.Any(), "Jeans", 2).Return(nil),
		stock.EXPECT().Restock(gomock.Any(), "Retired", 1).Return(inventory.ErrItemNotFound),
		repo.EXPECT().Delete(gomock.Any(), sale.ID).Return(nil),
	)

	require.NoError(t, svc.DeleteSale(context.Background(), sale.ID))
}

func TestService_DeleteSale_WrongKind(t *testing.T) {
	ctrl := gomock.NewController(t)

	svc, repo, _ := newService(ctrl)

	repo.EXPECT().Get(gomock.Any(), "x").Return(&ledger.Transaction{
		ID:      "x",
		Kind:    ledger.KindExpense,
		Expense: &ledger.Expense{},
	}, nil)

	assert.ErrorIs(t, svc.DeleteSale(context.Background(), "x"), ledger.ErrWrongKind)
}

func TestService_UpdateSaleStatus(t *testing.T) {
	ctrl := gomock.NewController(t)

	svc, repo, _ := newService(ctrl)

	tx := &ledger.Transaction{ID: "a", Kind: ledger.KindSale, Sale: &ledger.Sale{Status: ledger.SaleStatusConfirmed}}

	repo.EXPECT().Get(gomock.Any(), "a").Return(tx, nil)
	repo.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, got *ledger.Transaction) error {
			assert.Equal(t, ledger.SaleStatusDelivered, got.Sale.Status)
			return nil
		})

	require.NoError(t, svc.UpdateSaleStatus(context.Background(), "a", ledger.SaleStatusDelivered))

	err := svc.UpdateSaleStatus(context.Background(), "a", "Lost")
	assert.ErrorIs(t, err, ledger.ErrInvalidSale)
}

func TestService_UpdateExpense_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)

	svc, repo, _ := newService(ctrl)

	repo.EXPECT().Get(gomock.Any(), "missing").Return(nil, ledger.ErrNotFound)

	_, err := svc.UpdateExpense(context.Background(), "missing", ledger.ExpenseParams{
		Reason: "rent",
		Amount: decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestService_ArchiveCustomer(t *testing.T) {
	ctrl := gomock.NewController(t)

	svc, repo, _ := newService(ctrl)

	repo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

	got, err := svc.ArchiveCustomer(context.Background(), " Suresh K ", "98765 43210")
	require.NoError(t, err)
	assert.Equal(t, &ledger.CustomerRecord{
		Name:   "Suresh K",
		Phone:  "98765 43210",
		Status: ledger.CustomerStatusArchived,
	}, got.Customer)

	_, err = svc.ArchiveCustomer(context.Background(), "  ", "")
	assert.ErrorIs(t, err, ledger.ErrInvalidCustomer)
}

func TestTransaction_Time(t *testing.T) {
	tx := &ledger.Transaction{ID: ledger.NewID(time.Date(2025, 3, 13, 23, 0, 0, 0, time.UTC), ist)}

	assert.Equal(t, "2025-03-14T04:30:00.000+05:30", tx.ID)

	got, err := tx.Time()
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 3, 13, 23, 0, 0, 0, time.UTC)))

	_, err = (&ledger.Transaction{ID: "not-a-time"}).Time()
	assert.Error(t, err)
}

func TestSale_Profit(t *testing.T) {
	sale := &ledger.Sale{
		Items: []ledger.LineItem{
			{ProductName: "Jeans", Quantity: 2, UnitCostAtSale: decimal.NewFromInt(1000)},
		},
		GrossAmount:    decimal.NewFromInt(2000),
		DiscountAmount: decimal.NewFromInt(200),
	}

	assert.True(t, sale.NetAmount().Equal(decimal.NewFromInt(1800)))
	assert.True(t, sale.Profit().Equal(decimal.NewFromInt(-200)))
	assert.Equal(t, "2 x Jeans", sale.Describe())
}
