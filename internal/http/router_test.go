package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/vyapari/internal/analytics"
	"github.com/MrJamesThe3rd/vyapari/internal/auth"
	"github.com/MrJamesThe3rd/vyapari/internal/export"
	vyapariHttp "github.com/MrJamesThe3rd/vyapari/internal/http"
	authHandler "github.com/MrJamesThe3rd/vyapari/internal/http/auth"
	"github.com/MrJamesThe3rd/vyapari/internal/http/customer"
	"github.com/MrJamesThe3rd/vyapari/internal/http/dashboard"
	"github.com/MrJamesThe3rd/vyapari/internal/http/expense"
	invHandler "github.com/MrJamesThe3rd/vyapari/internal/http/inventory"
	"github.com/MrJamesThe3rd/vyapari/internal/http/order"
	"github.com/MrJamesThe3rd/vyapari/internal/inventory"
	"github.com/MrJamesThe3rd/vyapari/internal/ledger"
)

func newRouter(ctrl *gomock.Controller) http.Handler {
	loc := time.UTC

	ledgerSvc := ledger.NewService(ledger.NewMockRepository(ctrl), ledger.NewMockStock(ctrl), loc)
	inventorySvc := inventory.NewService(inventory.NewMockRepository(ctrl), 10)
	authSvc := auth.NewService(auth.NewMockRepository(ctrl), "test-secret", time.Hour)
	engine := analytics.NewEngine(
		analytics.NewMockTransactionSource(ctrl), analytics.NewMockInventorySource(ctrl), loc, analytics.PeriodToday)

	return vyapariHttp.New(
		vyapariHttp.Options{
			AllowedOrigins: []string{"https://shop.example"},
			Timeout:        time.Second,
			RequireAuth:    authHandler.Middleware(authSvc),
		},
		authHandler.NewHandler(authSvc),
		dashboard.NewHandler(engine),
		customer.NewHandler(engine, ledgerSvc),
		order.NewHandler(ledgerSvc, loc),
		expense.NewHandler(ledgerSvc, export.NewService(ledgerSvc, loc), loc),
		invHandler.NewHandler(inventorySvc),
	)
}

func TestRouter_RequiresToken(t *testing.T) {
	ctrl := gomock.NewController(t)

	router := newRouter(ctrl)

	for _, path := range []string{
		"/api/v1/dashboard/",
		"/api/v1/customers/",
		"/api/v1/orders/",
		"/api/v1/expenses/csv",
		"/api/v1/inventory/lowstock",
	} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRouter_AuthRoutesAreOpen(t *testing.T) {
	ctrl := gomock.NewController(t)

	router := newRouter(ctrl)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// Rejected by validation, not by the token check.
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	ctrl := gomock.NewController(t)

	router := newRouter(ctrl)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/dashboard/", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "https://shop.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, strings.ToLower(rec.Header().Get("Access-Control-Allow-Headers")), "authorization")
}
