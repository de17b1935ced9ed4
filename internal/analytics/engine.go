package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/vyapari/internal/inventory"
	"github.com/MrJamesThe3rd/vyapari/internal/ledger"
)

//go:generate mockgen -source=engine.go -destination=source_mock.go -package=analytics
type TransactionSource interface {
	ListAll(ctx context.Context) ([]*ledger.Transaction, error)
}

type InventorySource interface {
	Snapshot(ctx context.Context) ([]*inventory.Item, error)
	LowStockReport(ctx context.Context) (string, error)
}

// Engine fetches the log and the catalog and hands them to the pure
// assembly functions.
type Engine struct {
	txs           TransactionSource
	inv           InventorySource
	loc           *time.Location
	defaultPeriod Period
	now           func() time.Time
}

func NewEngine(txs TransactionSource, inv InventorySource, loc *time.Location, defaultPeriod Period) *Engine {
	if loc == nil {
		loc = time.UTC
	}

	if _, err := ParsePeriod(string(defaultPeriod)); err != nil {
		defaultPeriod = PeriodToday
	}

	return &Engine{txs: txs, inv: inv, loc: loc, defaultPeriod: defaultPeriod, now: time.Now}
}

// WithClock replaces the wall clock.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// period falls back to the default rather than failing the request.
func (e *Engine) period(token string) Period {
	if token == "" {
		return e.defaultPeriod
	}

	p, err := ParsePeriod(token)
	if err != nil {
		slog.Warn("unknown period, using default", "period", token, "default", e.defaultPeriod)
		return e.defaultPeriod
	}

	return p
}

type sources struct {
	txs      []*ledger.Transaction
	catalog  []*inventory.Item
	lowStock string
}

func (e *Engine) fetch(ctx context.Context, withInventory bool) (*sources, error) {
	var src sources

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		txs, err := e.txs.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("reading transaction log: %w", err)
		}

		src.txs = txs

		return nil
	})

	if withInventory {
		g.Go(func() error {
			catalog, err := e.inv.Snapshot(ctx)
			if err != nil {
				return fmt.Errorf("reading inventory: %w", err)
			}

			src.catalog = catalog

			return nil
		})

		g.Go(func() error {
			report, err := e.inv.LowStockReport(ctx)
			if err != nil {
				return fmt.Errorf("reading low stock report: %w", err)
			}

			src.lowStock = report

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &src, nil
}

func (e *Engine) BuildDashboard(ctx context.Context, token string) (*Dashboard, error) {
	period := e.period(token)

	src, err := e.fetch(ctx, true)
	if err != nil {
		return nil, err
	}

	d := Assemble(period, e.now().In(e.loc), src.txs, src.catalog, src.lowStock)
	if d.SkippedRecords > 0 {
		slog.Debug("skipped malformed transactions", "count", d.SkippedRecords)
	}

	return d, nil
}

func (e *Engine) Customers(ctx context.Context, token string) (*CustomerReport, error) {
	period := e.period(token)

	src, err := e.fetch(ctx, false)
	if err != nil {
		return nil, err
	}

	now := e.now().In(e.loc)
	report := AggregateCustomers(Classify(src.txs, e.loc), Resolve(period, now), now)

	return &report, nil
}
