package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/yourusername/punter-edge/internal/database"
	"github.com/yourusername/punter-edge/internal/models"
)

const ledgerColumns = `id, recorded_at, balance, movement, description, created_at`

// PostgresLedgerRepository implements LedgerRepository for PostgreSQL
type PostgresLedgerRepository struct {
	db *database.DB
}

// NewPostgresLedgerRepository creates a new ledger repository
func NewPostgresLedgerRepository(db *database.DB) LedgerRepository {
	return &PostgresLedgerRepository{db: db}
}

// Append records a movement and computes the resulting balance from the
// latest entry, all inside one transaction
func (r *PostgresLedgerRepository) Append(ctx context.Context, movement decimal.Decimal, description string) (*models.LedgerEntry, error) {
	entry := &models.LedgerEntry{
		ID:          uuid.New(),
		Movement:    movement,
		Description: description,
	}

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		last := decimal.Zero
		err := tx.QueryRow(ctx,
			`SELECT balance FROM bankroll_ledger ORDER BY created_at DESC LIMIT 1`,
		).Scan(&last)
		if err != nil && err != pgx.ErrNoRows {
			return fmt.Errorf("failed to read latest balance: %w", err)
		}

		entry.Balance = last.Add(movement)

		return tx.QueryRow(ctx, `
			INSERT INTO bankroll_ledger (id, recorded_at, balance, movement, description)
			VALUES ($1, NOW(), $2, $3, $4)
			RETURNING recorded_at, created_at
		`, entry.ID, entry.Balance, entry.Movement, entry.Description).
			Scan(&entry.RecordedAt, &entry.CreatedAt)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	return entry, nil
}

// CurrentBalance returns the balance of the most recent ledger entry
func (r *PostgresLedgerRepository) CurrentBalance(ctx context.Context) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.GetPool().QueryRow(ctx,
		`SELECT balance FROM bankroll_ledger ORDER BY created_at DESC LIMIT 1`,
	).Scan(&balance)
	if err == pgx.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read current balance: %w", err)
	}
	return balance, nil
}

// InitialBalance returns the balance established by the first ledger entry
func (r *PostgresLedgerRepository) InitialBalance(ctx context.Context) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.GetPool().QueryRow(ctx,
		`SELECT balance FROM bankroll_ledger ORDER BY created_at ASC LIMIT 1`,
	).Scan(&balance)
	if err == pgx.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read initial balance: %w", err)
	}
	return balance, nil
}

// ListOrdered returns all ledger entries ascending by creation time
func (r *PostgresLedgerRepository) ListOrdered(ctx context.Context) ([]*models.LedgerEntry, error) {
	rows, err := r.db.GetPool().Query(ctx,
		`SELECT `+ledgerColumns+` FROM bankroll_ledger ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	return scanLedgerEntries(rows)
}

// InTransaction runs fn against a transactional ledger view
func (r *PostgresLedgerRepository) InTransaction(ctx context.Context, fn func(LedgerMutator) error) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		return fn(&txLedgerMutator{tx: tx})
	})
}

// txLedgerMutator implements LedgerMutator on an open transaction
type txLedgerMutator struct {
	tx pgx.Tx
}

// DeleteByID removes a single ledger entry
func (m *txLedgerMutator) DeleteByID(ctx context.Context, id uuid.UUID) error {
	commandTag, err := m.tx.Exec(ctx, `DELETE FROM bankroll_ledger WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ledger entry: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteMatching removes all entries whose description matches the pattern
func (m *txLedgerMutator) DeleteMatching(ctx context.Context, descriptionPattern string) (int64, error) {
	commandTag, err := m.tx.Exec(ctx,
		`DELETE FROM bankroll_ledger WHERE description LIKE $1`, descriptionPattern)
	if err != nil {
		return 0, fmt.Errorf("failed to delete ledger entries: %w", err)
	}
	return commandTag.RowsAffected(), nil
}

// ListOrdered returns the surviving entries ascending by creation time
func (m *txLedgerMutator) ListOrdered(ctx context.Context) ([]*models.LedgerEntry, error) {
	rows, err := m.tx.Query(ctx,
		`SELECT `+ledgerColumns+` FROM bankroll_ledger ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	return scanLedgerEntries(rows)
}

// RewriteBalances applies recomputed balances to the given entries
func (m *txLedgerMutator) RewriteBalances(ctx context.Context, updates []models.BalanceUpdate) error {
	for _, update := range updates {
		commandTag, err := m.tx.Exec(ctx,
			`UPDATE bankroll_ledger SET balance = $2 WHERE id = $1`, update.ID, update.Balance)
		if err != nil {
			return fmt.Errorf("failed to rewrite balance for entry %s: %w", update.ID, err)
		}
		if commandTag.RowsAffected() == 0 {
			return models.ErrNotFound
		}
	}
	return nil
}

func scanLedgerEntries(rows pgx.Rows) ([]*models.LedgerEntry, error) {
	var entries []*models.LedgerEntry
	for rows.Next() {
		entry := &models.LedgerEntry{}
		err := rows.Scan(
			&entry.ID, &entry.RecordedAt, &entry.Balance, &entry.Movement,
			&entry.Description, &entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
