package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/punter-edge/internal/database"
	"github.com/yourusername/punter-edge/internal/models"
)

const betColumns = `id, placed_at, settled_at, competition, home_team, away_team, bet_type,
	       odds, stake, result, profit_loss, notes, created_at, updated_at`

// PostgresBetRepository implements BetRepository for PostgreSQL
type PostgresBetRepository struct {
	db *database.DB
}

// NewPostgresBetRepository creates a new bet repository
func NewPostgresBetRepository(db *database.DB) BetRepository {
	return &PostgresBetRepository{db: db}
}

// Create inserts a new bet
func (r *PostgresBetRepository) Create(ctx context.Context, bet *models.Bet) error {
	query := `
		INSERT INTO bets (id, placed_at, settled_at, competition, home_team, away_team,
		                  bet_type, odds, stake, result, profit_loss, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		bet.ID, bet.PlacedAt, bet.SettledAt, bet.Competition, bet.HomeTeam, bet.AwayTeam,
		bet.BetType, bet.Odds, bet.Stake, bet.Result, bet.ProfitLoss, bet.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to create bet: %w", err)
	}

	return nil
}

// GetByID retrieves a bet by ID
func (r *PostgresBetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE id = $1`

	bet := &models.Bet{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&bet.ID, &bet.PlacedAt, &bet.SettledAt, &bet.Competition, &bet.HomeTeam, &bet.AwayTeam,
		&bet.BetType, &bet.Odds, &bet.Stake, &bet.Result, &bet.ProfitLoss, &bet.Notes,
		&bet.CreatedAt, &bet.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}

	return bet, nil
}

// Update updates an existing bet
func (r *PostgresBetRepository) Update(ctx context.Context, bet *models.Bet) error {
	query := `
		UPDATE bets SET
			settled_at = $2, competition = $3, home_team = $4, away_team = $5,
			bet_type = $6, odds = $7, stake = $8, result = $9, profit_loss = $10,
			notes = $11, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query,
		bet.ID, bet.SettledAt, bet.Competition, bet.HomeTeam, bet.AwayTeam,
		bet.BetType, bet.Odds, bet.Stake, bet.Result, bet.ProfitLoss, bet.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to update bet: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Delete removes a bet. Related ledger movements are handled by the
// ledger consistency recalculator, not here.
func (r *PostgresBetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	commandTag, err := r.db.GetPool().Exec(ctx, `DELETE FROM bets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bet: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// GetSettledBets retrieves won/lost bets ascending by settlement time
func (r *PostgresBetRepository) GetSettledBets(ctx context.Context, filter models.BetFilter) ([]*models.Bet, error) {
	query := `SELECT ` + betColumns + `
		FROM bets
		WHERE result IN ('won', 'lost')
	`
	args := make([]interface{}, 0, 4)

	if filter.Competition != "" {
		args = append(args, filter.Competition)
		query += fmt.Sprintf(" AND competition = $%d", len(args))
	}
	if filter.BetType != "" {
		args = append(args, filter.BetType)
		query += fmt.Sprintf(" AND bet_type = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND COALESCE(settled_at, placed_at) >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND COALESCE(settled_at, placed_at) <= $%d", len(args))
	}

	query += " ORDER BY COALESCE(settled_at, placed_at) ASC, created_at ASC"

	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query settled bets: %w", err)
	}
	defer rows.Close()

	return scanBets(rows)
}

// GetPendingBets retrieves all pending bets
func (r *PostgresBetRepository) GetPendingBets(ctx context.Context) ([]*models.Bet, error) {
	query := `SELECT ` + betColumns + `
		FROM bets
		WHERE result = 'pending'
		ORDER BY placed_at ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending bets: %w", err)
	}
	defer rows.Close()

	return scanBets(rows)
}

// GetRecentBetsByParticipant retrieves the most recent settled bets where
// either participant appeared on either side of the match
func (r *PostgresBetRepository) GetRecentBetsByParticipant(ctx context.Context, participantA, participantB string, limit int) ([]*models.Bet, error) {
	query := `SELECT ` + betColumns + `
		FROM bets
		WHERE (home_team = $1 OR away_team = $1 OR home_team = $2 OR away_team = $2)
		  AND result IN ('won', 'lost')
		ORDER BY COALESCE(settled_at, placed_at) DESC
		LIMIT $3
	`

	rows, err := r.db.GetPool().Query(ctx, query, participantA, participantB, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets by participant: %w", err)
	}
	defer rows.Close()

	return scanBets(rows)
}

func scanBets(rows pgx.Rows) ([]*models.Bet, error) {
	var bets []*models.Bet
	for rows.Next() {
		bet := &models.Bet{}
		err := rows.Scan(
			&bet.ID, &bet.PlacedAt, &bet.SettledAt, &bet.Competition, &bet.HomeTeam, &bet.AwayTeam,
			&bet.BetType, &bet.Odds, &bet.Stake, &bet.Result, &bet.ProfitLoss, &bet.Notes,
			&bet.CreatedAt, &bet.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}

	return bets, rows.Err()
}
