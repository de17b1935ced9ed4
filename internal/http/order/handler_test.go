package order_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/vyapari/internal/auth"
	"github.com/MrJamesThe3rd/vyapari/internal/http/order"
	"github.com/MrJamesThe3rd/vyapari/internal/inventory"
	"github.com/MrJamesThe3rd/vyapari/internal/ledger"
)

var ist = time.FixedZone("IST", 19800)

func newRouter(ctrl *gomock.Controller) (http.Handler, *ledger.MockRepository, *ledger.MockStock) {
	repo := ledger.NewMockRepository(ctrl)
	stock := ledger.NewMockStock(ctrl)

	svc := ledger.NewService(repo, stock, ist).
		WithClock(func() time.Time { return time.Date(2025, 3, 14, 10, 30, 0, 0, ist) })

	r := chi.NewRouter()
	r.Route("/orders", order.NewHandler(svc, ist).Routes)

	return r, repo, stock
}

func saleTx(id string, status ledger.SaleStatus) *ledger.Transaction {
	return &ledger.Transaction{
		ID:   id,
		Kind: ledger.KindSale,
		Sale: &ledger.Sale{
			Items:          []ledger.LineItem{{ProductName: "Jeans", Quantity: 2, UnitPrice: decimal.NewFromInt(1000)}},
			GrossAmount:    decimal.NewFromInt(2000),
			DiscountAmount: decimal.NewFromInt(200),
			Status:         status,
		},
	}
}

func TestHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)

	router, repo, _ := newRouter(ctrl)

	repo.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f ledger.ListFilter) ([]*ledger.Transaction, error) {
			require.NotNil(t, f.Kind)
			assert.Equal(t, ledger.KindSale, *f.Kind)
			require.NotNil(t, f.From)
			require.NotNil(t, f.To)
			assert.True(t, f.From.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, ist)))
			assert.True(t, f.To.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, ist)))

			return []*ledger.Transaction{
				saleTx("2025-03-13T10:00:00.000+05:30", ledger.SaleStatusDelivered),
				saleTx("2025-03-14T10:00:00.000+05:30", ledger.SaleStatusConfirmed),
			}, nil
		})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/?from=2025-03-01&to=2025-03-14", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got []struct {
		ID        string `json:"id"`
		Summary   string `json:"summary"`
		NetAmount string `json:"net_amount"`
		Status    string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	require.Len(t, got, 2)
	assert.Equal(t, "2025-03-14T10:00:00.000+05:30", got[0].ID)
	assert.Equal(t, "2 x Jeans", got[0].Summary)
	assert.Equal(t, "1800", got[0].NetAmount)
	assert.Equal(t, "Delivered", got[1].Status)
}

func TestHandler_List_BadDate(t *testing.T) {
	ctrl := gomock.NewController(t)

	router, _, _ := newRouter(ctrl)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/?from=14-03-2025", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Create(t *testing.T) {
	type testCase struct {
		name      string
		body      string
		claims    *auth.Claims
		setupMock func(repo *ledger.MockRepository, stock *ledger.MockStock)
		wantCode  int
		wantBody  []string
	}

	jeans := &inventory.Item{Name: "Jeans", CostPrice: decimal.NewFromInt(600)}

	tests := []testCase{
		{
			name:   "Success",
			body:   `{"item":"jeans","qty":2,"rate":"1000","discount":"10%","customer_name":"Anita"}`,
			claims: &auth.Claims{Name: "Meena"},
			setupMock: func(repo *ledger.MockRepository, stock *ledger.MockStock) {
				stock.EXPECT().Find(gomock.Any(), "jeans").Return(jeans, nil)
				repo.EXPECT().
					Append(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *ledger.Transaction) error {
						assert.Equal(t, "Meena", tx.Sale.EnteredBy)
						return nil
					})
				stock.EXPECT().AdjustStock(gomock.Any(), "Jeans", 2).Return("LOW STOCK ALERT: only 3 units of 'Jeans' remaining.", nil)
			},
			wantCode: http.StatusCreated,
			wantBody: []string{`"net_amount":"1800"`, `"stock_alert":"LOW STOCK ALERT`, `"customer_name":"Anita"`},
		},
		{
			name: "UnknownItem",
			body: `{"item":"ghost","qty":1,"rate":"10"}`,
			setupMock: func(_ *ledger.MockRepository, stock *ledger.MockStock) {
				stock.EXPECT().Find(gomock.Any(), "ghost").Return(nil, inventory.ErrItemNotFound)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "MissingPrice",
			body:     `{"item":"jeans","qty":1}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "BadJSON",
			body:     `{"item":`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			router, repo, stock := newRouter(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo, stock)
			}

			req := httptest.NewRequest(http.MethodPost, "/orders/", strings.NewReader(tt.body))
			if tt.claims != nil {
				req = req.WithContext(auth.WithClaims(req.Context(), tt.claims))
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			for _, want := range tt.wantBody {
				assert.Contains(t, rec.Body.String(), want)
			}
		})
	}
}

func TestHandler_UpdateStatus(t *testing.T) {
	ctrl := gomock.NewController(t)

	router, repo, _ := newRouter(ctrl)
	id := "2025-03-14T10:00:00.000+05:30"

	repo.EXPECT().Get(gomock.Any(), id).Return(saleTx(id, ledger.SaleStatusConfirmed), nil)
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/orders/"+id+"/status",
		strings.NewReader(`{"status":"Delivered"}`)))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/orders/"+id+"/status",
		strings.NewReader(`{"status":"Lost"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)

	router, repo, stock := newRouter(ctrl)
	id := "2025-03-14T10:00:00.000+05:30"

	gomock.InOrder(
		repo.EXPECT().Get(gomock.Any(), id).Return(saleTx(id, ledger.SaleStatusConfirmed), nil),
		stock.EXPECT().Restock(gomock.Any(), "Jeans", 2).Return(nil),
		repo.EXPECT().Delete(gomock.Any(), id).Return(nil),
	)
	repo.EXPECT().Get(gomock.Any(), "missing").Return(nil, ledger.ErrNotFound)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/orders/"+id, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/orders/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
