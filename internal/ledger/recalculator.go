// Package ledger maintains the running-balance invariant of the
// bankroll ledger: every balance equals the prior balance plus the
// entry's movement, in creation order.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/punter-edge/internal/metrics"
	"github.com/yourusername/punter-edge/internal/models"
	"github.com/yourusername/punter-edge/internal/repository"
)

// Recalculator rewrites ledger balances after destructive mutations
type Recalculator struct {
	ledger repository.LedgerRepository
	logger *logrus.Entry
}

// NewRecalculator creates a ledger recalculator
func NewRecalculator(ledger repository.LedgerRepository, logger *logrus.Logger) *Recalculator {
	return &Recalculator{
		ledger: ledger,
		logger: logger.WithField("component", "ledger"),
	}
}

// ComputeBalances walks the ordered entries accumulating movements from
// zero and returns the corrected balance per entry. Pure function; the
// input order is taken as the authoritative sequence.
func ComputeBalances(entries []*models.LedgerEntry) []models.BalanceUpdate {
	updates := make([]models.BalanceUpdate, 0, len(entries))
	acc := decimal.Zero
	for _, entry := range entries {
		acc = acc.Add(entry.Movement)
		updates = append(updates, models.BalanceUpdate{ID: entry.ID, Balance: acc})
	}
	return updates
}

// Recalculate rewrites every stored balance from the movement sequence.
// Idempotent: a second run with no intervening mutation is a no-op
// rewrite of identical values.
func (r *Recalculator) Recalculate(ctx context.Context) error {
	start := time.Now()

	var rewritten int
	err := r.ledger.InTransaction(ctx, func(m repository.LedgerMutator) error {
		entries, err := m.ListOrdered(ctx)
		if err != nil {
			return err
		}
		updates := ComputeBalances(entries)
		rewritten = len(updates)
		return m.RewriteBalances(ctx, updates)
	})
	if err != nil {
		return fmt.Errorf("ledger recalculation failed: %w", err)
	}

	metrics.RecordLedgerRecalculation(time.Since(start).Seconds())
	r.logger.WithField("entries", rewritten).Info("Ledger balances recalculated")
	return nil
}

// RecalculateAfterDeletion removes one entry and rewrites the balances
// of the surviving sequence, all in a single transaction
func (r *Recalculator) RecalculateAfterDeletion(ctx context.Context, entryID uuid.UUID) error {
	start := time.Now()

	err := r.ledger.InTransaction(ctx, func(m repository.LedgerMutator) error {
		if err := m.DeleteByID(ctx, entryID); err != nil {
			return err
		}
		entries, err := m.ListOrdered(ctx)
		if err != nil {
			return err
		}
		return m.RewriteBalances(ctx, ComputeBalances(entries))
	})
	if err != nil {
		return fmt.Errorf("ledger recalculation after deletion failed: %w", err)
	}

	metrics.RecordLedgerRecalculation(time.Since(start).Seconds())
	r.logger.WithField("entry_id", entryID).Info("Ledger entry removed and balances recalculated")
	return nil
}

// RemoveBetMovements deletes every ledger movement recorded for the
// given bet and rewrites the surviving balances. Entry descriptions for
// bet movements always start with the BetMovementDescription prefix.
func (r *Recalculator) RemoveBetMovements(ctx context.Context, betID uuid.UUID) error {
	start := time.Now()

	var removed int64
	err := r.ledger.InTransaction(ctx, func(m repository.LedgerMutator) error {
		n, err := m.DeleteMatching(ctx, BetMovementDescription(betID)+"%")
		if err != nil {
			return err
		}
		removed = n
		entries, err := m.ListOrdered(ctx)
		if err != nil {
			return err
		}
		return m.RewriteBalances(ctx, ComputeBalances(entries))
	})
	if err != nil {
		return fmt.Errorf("failed to remove bet movements: %w", err)
	}

	metrics.RecordLedgerRecalculation(time.Since(start).Seconds())
	r.logger.WithFields(logrus.Fields{
		"bet_id":  betID,
		"removed": removed,
	}).Info("Bet ledger movements removed and balances recalculated")
	return nil
}

// BetMovementDescription is the canonical description prefix for ledger
// movements tied to a bet
func BetMovementDescription(betID uuid.UUID) string {
	return fmt.Sprintf("Bet #%s", betID)
}
