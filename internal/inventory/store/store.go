package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/vyapari/internal/inventory"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectItemColumns = `
	name, category, quantity, cost_price, selling_price, low_stock_threshold, last_sold_at, updated_at
`

// Expected column order matches selectItemColumns.
func scanItem(s scanner) (*inventory.Item, error) {
	var item inventory.Item

	var lastSold sql.NullTime

	if err := s.Scan(
		&item.Name, &item.Category, &item.Quantity, &item.CostPrice, &item.SellingPrice,
		&item.LowStockThreshold, &lastSold, &item.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if lastSold.Valid {
		item.LastSoldAt = &lastSold.Time
	}

	return &item, nil
}

func (s *Store) ListItems(ctx context.Context) ([]*inventory.Item, error) {
	query := `SELECT ` + selectItemColumns + ` FROM inventory_items ORDER BY name_key ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []*inventory.Item

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating item rows: %w", err)
	}

	return items, nil
}

func (s *Store) GetItem(ctx context.Context, name string) (*inventory.Item, error) {
	query := `SELECT ` + selectItemColumns + ` FROM inventory_items WHERE name_key = $1`

	item, err := scanItem(s.db.QueryRowContext(ctx, query, inventory.Key(name)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, inventory.ErrItemNotFound
		}

		return nil, fmt.Errorf("getting item: %w", err)
	}

	return item, nil
}

func (s *Store) CreateItem(ctx context.Context, item *inventory.Item) error {
	query := `
		INSERT INTO inventory_items (name, name_key, category, quantity, cost_price, selling_price, low_stock_threshold, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		item.Name,
		inventory.Key(item.Name),
		item.Category,
		item.Quantity,
		item.CostPrice,
		item.SellingPrice,
		item.LowStockThreshold,
	).Scan(&item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating item: %w", err)
	}

	return nil
}

// AddQuantity applies delta in a single statement so concurrent sales of the
// same item never lose an update.
func (s *Store) AddQuantity(ctx context.Context, name string, delta int, soldAt *time.Time) (*inventory.Item, error) {
	query := `
		UPDATE inventory_items
		SET quantity = quantity + $1, last_sold_at = COALESCE($2, last_sold_at), updated_at = NOW()
		WHERE name_key = $3
		RETURNING ` + selectItemColumns

	item, err := scanItem(s.db.QueryRowContext(ctx, query, delta, soldAt, inventory.Key(name)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, inventory.ErrItemNotFound
		}

		return nil, fmt.Errorf("adjusting quantity: %w", err)
	}

	return item, nil
}
