package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/vyapari/internal/analytics"
	"github.com/MrJamesThe3rd/vyapari/internal/auth"
	authStore "github.com/MrJamesThe3rd/vyapari/internal/auth/store"
	"github.com/MrJamesThe3rd/vyapari/internal/config"
	"github.com/MrJamesThe3rd/vyapari/internal/database"
	"github.com/MrJamesThe3rd/vyapari/internal/export"
	vyapariHttp "github.com/MrJamesThe3rd/vyapari/internal/http"
	authHandler "github.com/MrJamesThe3rd/vyapari/internal/http/auth"
	customerHandler "github.com/MrJamesThe3rd/vyapari/internal/http/customer"
	dashboardHandler "github.com/MrJamesThe3rd/vyapari/internal/http/dashboard"
	expenseHandler "github.com/MrJamesThe3rd/vyapari/internal/http/expense"
	inventoryHandler "github.com/MrJamesThe3rd/vyapari/internal/http/inventory"
	orderHandler "github.com/MrJamesThe3rd/vyapari/internal/http/order"
	"github.com/MrJamesThe3rd/vyapari/internal/inventory"
	inventoryStore "github.com/MrJamesThe3rd/vyapari/internal/inventory/store"
	"github.com/MrJamesThe3rd/vyapari/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/vyapari/internal/ledger/store"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Auth.Secret == "" {
		slog.Error("AUTH_SECRET is required")
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), database.Options{MaxOpenConns: cfg.DB.MaxConns})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	loc := cfg.Location()

	var (
		inventoryService = inventory.NewService(inventoryStore.New(db), cfg.Shop.LowStockThreshold)
		ledgerService    = ledger.NewService(ledgerStore.New(db), inventoryService, loc)
		exportService    = export.NewService(ledgerService, loc)
		authService      = auth.NewService(authStore.New(db), cfg.Auth.Secret, cfg.Auth.TokenTTL)
		engine           = analytics.NewEngine(ledgerService, inventoryService, loc, analytics.Period(cfg.Shop.DefaultPeriod))
	)

	router := vyapariHttp.New(
		vyapariHttp.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Timeout:        cfg.Server.Timeout,
			RequireAuth:    authHandler.Middleware(authService),
		},
		authHandler.NewHandler(authService),
		dashboardHandler.NewHandler(engine),
		customerHandler.NewHandler(engine, ledgerService),
		orderHandler.NewHandler(ledgerService, loc),
		expenseHandler.NewHandler(ledgerService, exportService, loc),
		inventoryHandler.NewHandler(inventoryService),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr, "timezone", loc.String())

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shut down server", "error", err)
	}
}
