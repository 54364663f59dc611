// Package repository provides data access layers for bets and the bankroll ledger.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yourusername/punter-edge/internal/models"
)

// BetRepository defines read/write access to tracked bets
type BetRepository interface {
	Create(ctx context.Context, bet *models.Bet) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error)
	Update(ctx context.Context, bet *models.Bet) error
	Delete(ctx context.Context, id uuid.UUID) error

	// GetSettledBets returns won/lost bets ascending by settlement time,
	// optionally narrowed by competition, bet type and date range.
	GetSettledBets(ctx context.Context, filter models.BetFilter) ([]*models.Bet, error)
	GetPendingBets(ctx context.Context) ([]*models.Bet, error)

	// GetRecentBetsByParticipant returns the most recent settled bets in
	// which either named participant appeared on either side.
	GetRecentBetsByParticipant(ctx context.Context, participantA, participantB string, limit int) ([]*models.Bet, error)
}

// LedgerMutator is the transactional view of the ledger used by the
// consistency recalculator. All methods run inside a single transaction.
type LedgerMutator interface {
	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteMatching(ctx context.Context, descriptionPattern string) (int64, error)
	ListOrdered(ctx context.Context) ([]*models.LedgerEntry, error)
	RewriteBalances(ctx context.Context, updates []models.BalanceUpdate) error
}

// LedgerRepository defines access to the append-only bankroll ledger
type LedgerRepository interface {
	// Append records a movement; the store computes the resulting balance.
	Append(ctx context.Context, movement decimal.Decimal, description string) (*models.LedgerEntry, error)
	CurrentBalance(ctx context.Context) (decimal.Decimal, error)
	InitialBalance(ctx context.Context) (decimal.Decimal, error)
	ListOrdered(ctx context.Context) ([]*models.LedgerEntry, error)

	// InTransaction runs fn against a transactional ledger view; the
	// whole callback commits or rolls back as one unit.
	InTransaction(ctx context.Context, fn func(LedgerMutator) error) error
}
