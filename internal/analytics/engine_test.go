package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/vyapari/internal/analytics"
	"github.com/MrJamesThe3rd/vyapari/internal/inventory"
	"github.com/MrJamesThe3rd/vyapari/internal/ledger"
)

func newEngine(ctrl *gomock.Controller) (*analytics.Engine, *analytics.MockTransactionSource, *analytics.MockInventorySource) {
	txs := analytics.NewMockTransactionSource(ctrl)
	inv := analytics.NewMockInventorySource(ctrl)

	engine := analytics.NewEngine(txs, inv, ist, analytics.PeriodToday).
		WithClock(func() time.Time { return at(2025, time.March, 14, 18, 0).UTC() })

	return engine, txs, inv
}

func TestEngine_BuildDashboard(t *testing.T) {
	type testCase struct {
		name       string
		token      string
		setupMock  func(txs *analytics.MockTransactionSource, inv *analytics.MockInventorySource)
		wantPeriod analytics.Period
		wantErr    bool
	}

	log := []*ledger.Transaction{
		sale(at(2025, time.March, 14, 11, 0), "Jeans", 1, 1000, 600),
	}

	tests := []testCase{
		{
			name:  "Month",
			token: "Month",
			setupMock: func(txs *analytics.MockTransactionSource, inv *analytics.MockInventorySource) {
				txs.EXPECT().ListAll(gomock.Any()).Return(log, nil)
				inv.EXPECT().Snapshot(gomock.Any()).Return([]*inventory.Item{{Name: "Jeans", Quantity: 3}}, nil)
				inv.EXPECT().LowStockReport(gomock.Any()).Return("", nil)
			},
			wantPeriod: analytics.PeriodMonth,
		},
		{
			name:  "UnknownPeriodFallsBack",
			token: "decade",
			setupMock: func(txs *analytics.MockTransactionSource, inv *analytics.MockInventorySource) {
				txs.EXPECT().ListAll(gomock.Any()).Return(log, nil)
				inv.EXPECT().Snapshot(gomock.Any()).Return(nil, nil)
				inv.EXPECT().LowStockReport(gomock.Any()).Return("", nil)
			},
			wantPeriod: analytics.PeriodToday,
		},
		{
			name: "LogError",
			setupMock: func(txs *analytics.MockTransactionSource, inv *analytics.MockInventorySource) {
				txs.EXPECT().ListAll(gomock.Any()).Return(nil, errors.New("connection refused"))
				inv.EXPECT().Snapshot(gomock.Any()).Return(nil, nil).AnyTimes()
				inv.EXPECT().LowStockReport(gomock.Any()).Return("", nil).AnyTimes()
			},
			wantErr: true,
		},
		{
			name: "InventoryError",
			setupMock: func(txs *analytics.MockTransactionSource, inv *analytics.MockInventorySource) {
				txs.EXPECT().ListAll(gomock.Any()).Return(log, nil).AnyTimes()
				inv.EXPECT().Snapshot(gomock.Any()).Return(nil, errors.New("timeout"))
				inv.EXPECT().LowStockReport(gomock.Any()).Return("", nil).AnyTimes()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			engine, txs, inv := newEngine(ctrl)
			tt.setupMock(txs, inv)

			got, err := engine.BuildDashboard(context.Background(), tt.token)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantPeriod, got.Window.Period)
			assertDecimal(t, "1000", got.KPIs.TotalRevenue.Value)
			assert.Equal(t, ist, got.GeneratedAt.Location())
		})
	}
}

func TestEngine_CustomersSkipsInventory(t *testing.T) {
	ctrl := gomock.NewController(t)

	engine, txs, _ := newEngine(ctrl)

	txs.EXPECT().ListAll(gomock.Any()).Return([]*ledger.Transaction{
		sale(at(2025, time.March, 14, 11, 0), "Jeans", 1, 1000, 600, customer("Anita", "1")),
	}, nil)

	report, err := engine.Customers(context.Background(), "week")
	require.NoError(t, err)

	assert.Equal(t, analytics.PeriodWeek, report.Window.Period)
	require.Len(t, report.Customers, 1)
	assert.Equal(t, "Anita", report.Customers[0].DisplayName)
	assert.Equal(t, 1, report.NewInSpan)
}
