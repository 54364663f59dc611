package models

import (
	"time"

	"github.com/google/uuid"
)

// BetResult represents the settlement state of a bet
type BetResult string

const (
	BetResultPending BetResult = "pending"
	BetResultWon     BetResult = "won"
	BetResultLost    BetResult = "lost"
	BetResultVoid    BetResult = "void"
)

// Bet represents a single tracked bet
type Bet struct {
	ID          uuid.UUID  `db:"id" json:"id" validate:"required,uuid4"`
	PlacedAt    time.Time  `db:"placed_at" json:"placed_at" validate:"required"`
	SettledAt   *time.Time `db:"settled_at" json:"settled_at"`
	Competition string     `db:"competition" json:"competition" validate:"required"`
	HomeTeam    string     `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam    string     `db:"away_team" json:"away_team" validate:"required"`
	BetType     string     `db:"bet_type" json:"bet_type" validate:"required"`
	Odds        float64    `db:"odds" json:"odds" validate:"required,gt=1"`
	Stake       float64    `db:"stake" json:"stake" validate:"required,gt=0"`
	Result      BetResult  `db:"result" json:"result" validate:"required,oneof=pending won lost void"`
	ProfitLoss  float64    `db:"profit_loss" json:"profit_loss"`
	Notes       string     `db:"notes" json:"notes"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// IsSettled reports whether the bet has a final won/lost outcome.
// Voided bets carry no profit or loss and never enter analytics.
func (b *Bet) IsSettled() bool {
	return b.Result == BetResultWon || b.Result == BetResultLost
}

// Return returns the per-bet fractional outcome (profit over stake)
func (b *Bet) Return() float64 {
	if b.Stake == 0 {
		return 0
	}
	return b.ProfitLoss / b.Stake
}

// GetROI returns the return on investment percentage
func (b *Bet) GetROI() float64 {
	return b.Return() * 100
}

// SettlementTime returns the time used to order the bet in the return
// series. Bets without a settlement timestamp fall back to placement time.
func (b *Bet) SettlementTime() time.Time {
	if b.SettledAt != nil && !b.SettledAt.IsZero() {
		return *b.SettledAt
	}
	return b.PlacedAt
}

// BetFilter narrows a settled-bet query
type BetFilter struct {
	Competition string
	BetType     string
	From        *time.Time
	To          *time.Time
}
