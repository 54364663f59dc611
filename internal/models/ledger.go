package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntry represents one recorded bankroll movement with its resulting
// running balance. Entries are ordered by creation time; for every entry
// after the first, Balance = previous Balance + Movement.
type LedgerEntry struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	RecordedAt  time.Time       `db:"recorded_at" json:"recorded_at"`
	Balance     decimal.Decimal `db:"balance" json:"balance"`
	Movement    decimal.Decimal `db:"movement" json:"movement"`
	Description string          `db:"description" json:"description"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// BalanceUpdate carries a recomputed balance for one ledger entry
type BalanceUpdate struct {
	ID      uuid.UUID
	Balance decimal.Decimal
}
