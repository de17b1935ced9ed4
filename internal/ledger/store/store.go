package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/vyapari/internal/ledger"
)

// errMalformed marks a row that was read but whose payload cannot be decoded.
var errMalformed = errors.New("malformed transaction")

// Store keeps one row per ledger record with the variant payload as JSONB.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, kind, payload.
func scanTransaction(s scanner) (*ledger.Transaction, error) {
	var (
		tx      ledger.Transaction
		kind    string
		payload []byte
	)

	if err := s.Scan(&tx.ID, &kind, &payload); err != nil {
		return nil, err
	}

	tx.Kind = ledger.Kind(kind)

	var target any

	switch tx.Kind {
	case ledger.KindSale:
		tx.Sale = &ledger.Sale{}
		target = tx.Sale
	case ledger.KindExpense:
		tx.Expense = &ledger.Expense{}
		target = tx.Expense
	case ledger.KindCustomer:
		tx.Customer = &ledger.CustomerRecord{}
		target = tx.Customer
	default:
		return nil, fmt.Errorf("%w %s: unknown kind %q", errMalformed, tx.ID, kind)
	}

	if err := json.Unmarshal(payload, target); err != nil {
		return nil, fmt.Errorf("%w %s: decoding payload: %w", errMalformed, tx.ID, err)
	}

	return &tx, nil
}

func payloadOf(tx *ledger.Transaction) ([]byte, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	var v any

	switch tx.Kind {
	case ledger.KindSale:
		v = tx.Sale
	case ledger.KindExpense:
		v = tx.Expense
	case ledger.KindCustomer:
		v = tx.Customer
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", tx.ID, err)
	}

	return b, nil
}

func (s *Store) Append(ctx context.Context, tx *ledger.Transaction) error {
	occurredAt, err := tx.Time()
	if err != nil {
		return err
	}

	payload, err := payloadOf(tx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO transactions (id, kind, payload, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`

	if _, err := s.db.ExecContext(ctx, query, tx.ID, tx.Kind, payload, occurredAt); err != nil {
		return fmt.Errorf("appending transaction: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*ledger.Transaction, error) {
	query := `SELECT id, kind, payload FROM transactions WHERE id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) List(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Transaction, error) {
	query := `SELECT id, kind, payload FROM transactions WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.Kind != nil {
		query += fmt.Sprintf(" AND kind = $%d", argIdx)

		args = append(args, *filter.Kind)
		argIdx++
	}

	if filter.From != nil {
		query += fmt.Sprintf(" AND occurred_at >= $%d", argIdx)

		args = append(args, *filter.From)
		argIdx++
	}

	if filter.To != nil {
		query += fmt.Sprintf(" AND occurred_at < $%d", argIdx)

		args = append(args, *filter.To)
	}

	query += " ORDER BY id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*ledger.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if errors.Is(err, errMalformed) {
			slog.Warn("skipping malformed transaction", "error", err)
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

func (s *Store) Update(ctx context.Context, tx *ledger.Transaction) error {
	payload, err := payloadOf(tx)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `UPDATE transactions SET payload = $1 WHERE id = $2 AND kind = $3`,
		payload, tx.ID, tx.Kind)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	return requireOne(res)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return requireOne(res)
}

func (s *Store) LastExpenseNumber(ctx context.Context) (int, error) {
	query := `
		SELECT COALESCE(MAX(CAST(SUBSTRING(payload->>'expense_id' FROM 5) AS INTEGER)), 0)
		FROM transactions
		WHERE kind = $1 AND payload->>'expense_id' ~ '^EXP-[0-9]+$'
	`

	var n int
	if err := s.db.QueryRowContext(ctx, query, ledger.KindExpense).Scan(&n); err != nil {
		return 0, fmt.Errorf("reading last expense number: %w", err)
	}

	return n, nil
}

func requireOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return ledger.ErrNotFound
	}

	return nil
}
