// Package alerts evaluates the betting history and prospective bets
// against configured risk thresholds.
package alerts

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/punter-edge/internal/analytics"
	"github.com/yourusername/punter-edge/internal/config"
	"github.com/yourusername/punter-edge/internal/metrics"
	"github.com/yourusername/punter-edge/internal/models"
	"github.com/yourusername/punter-edge/internal/repository"
)

// AlertType identifies the condition that fired an alert
type AlertType string

const (
	AlertDrawdown     AlertType = "drawdown"
	AlertLosingStreak AlertType = "losing_streak"
	AlertROIWarning   AlertType = "roi_warning"
	AlertBankrollLow  AlertType = "bankroll_low"
	AlertHighRiskBet  AlertType = "high_risk_bet"
	AlertValueBet     AlertType = "value_opportunity"
)

// Severity ranks an alert for notification routing
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert is one fired threshold condition
type Alert struct {
	Type      AlertType `json:"type"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold"`
	CreatedAt time.Time `json:"created_at"`
}

// probabilityHistoryLimit bounds the lookback for win-probability
// estimation
const probabilityHistoryLimit = 20

var decimalHundred = decimal.NewFromInt(100)

// Engine runs threshold checks over the betting history and the ledger
type Engine struct {
	bets         repository.BetRepository
	ledger       repository.LedgerRepository
	cfg          config.AlertsConfig
	analyticsCfg config.AnalyticsConfig
	cache        *gocache.Cache
	logger       *logrus.Entry
}

// NewEngine creates an alert engine. Probability estimates are cached
// for the configured TTL since they hit the full participant history.
func NewEngine(
	bets repository.BetRepository,
	ledger repository.LedgerRepository,
	cfg config.AlertsConfig,
	analyticsCfg config.AnalyticsConfig,
	logger *logrus.Logger,
) *Engine {
	return &Engine{
		bets:         bets,
		ledger:       ledger,
		cfg:          cfg,
		analyticsCfg: analyticsCfg,
		cache:        gocache.New(cfg.CacheTTL(), 2*cfg.CacheTTL()),
		logger:       logger.WithField("component", "alerts"),
	}
}

// Sweep runs all history-level checks and returns the fired alerts
func (e *Engine) Sweep(ctx context.Context) ([]Alert, error) {
	bets, err := e.bets.GetSettledBets(ctx, models.BetFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load settled bets: %w", err)
	}
	series := analytics.BuildSeries(bets)

	var fired []Alert
	if e.cfg.Enabled.Drawdown {
		if a := e.checkDrawdown(series); a != nil {
			fired = append(fired, *a)
		}
	}
	if e.cfg.Enabled.LosingStreak {
		if a := e.checkLosingStreak(series); a != nil {
			fired = append(fired, *a)
		}
	}
	if e.cfg.Enabled.ROIWarning {
		if a := e.checkRecentROI(series); a != nil {
			fired = append(fired, *a)
		}
	}
	if e.cfg.Enabled.BankrollLow {
		a, err := e.checkBankroll(ctx)
		if err != nil {
			return nil, err
		}
		if a != nil {
			fired = append(fired, *a)
		}
	}

	for _, a := range fired {
		metrics.RecordAlertFired(string(a.Type))
		e.logger.WithFields(logrus.Fields{
			"type":     a.Type,
			"severity": a.Severity,
			"value":    a.Value,
		}).Warn(a.Message)
	}
	return fired, nil
}

// CheckProspectiveBet evaluates a bet before it is placed
func (e *Engine) CheckProspectiveBet(ctx context.Context, bet *models.Bet) ([]Alert, error) {
	var fired []Alert

	if e.cfg.Enabled.HighRiskBet && bet.Odds > e.cfg.OddsThreshold {
		fired = append(fired, newAlert(AlertHighRiskBet, SeverityWarning,
			fmt.Sprintf("Odds %.2f exceed the high-risk threshold %.2f", bet.Odds, e.cfg.OddsThreshold),
			bet.Odds, e.cfg.OddsThreshold))
	}

	probability, err := e.EstimateWinProbability(ctx, bet.HomeTeam, bet.AwayTeam)
	if err != nil {
		return nil, err
	}

	if e.cfg.Enabled.HighRiskBet {
		settled, err := e.bets.GetSettledBets(ctx, models.BetFilter{})
		if err != nil {
			return nil, fmt.Errorf("failed to load settled bets: %w", err)
		}
		kelly := analytics.ComputeOptimalKelly(settled, e.analyticsCfg)
		if kelly.Overall >= e.analyticsCfg.KellyCap {
			fired = append(fired, newAlert(AlertHighRiskBet, SeverityWarning,
				fmt.Sprintf("Kelly fraction is pinned at the %.0f%% cap; sizing is no longer edge-driven", e.analyticsCfg.KellyCap*100),
				kelly.Overall, e.analyticsCfg.KellyCap))
		}
	}

	if e.cfg.Enabled.ValueBet {
		// Expected value per unit staked under the estimated probability.
		ev := probability*(bet.Odds-1) - (1 - probability)
		if ev > e.cfg.ValueBetThreshold {
			fired = append(fired, newAlert(AlertValueBet, SeverityInfo,
				fmt.Sprintf("Estimated edge %.2f exceeds the value threshold %.2f at odds %.2f", ev, e.cfg.ValueBetThreshold, bet.Odds),
				ev, e.cfg.ValueBetThreshold))
		}
	}

	for _, a := range fired {
		metrics.RecordAlertFired(string(a.Type))
	}
	return fired, nil
}

// EstimateWinProbability estimates the win chance of a prospective bet
// from the recent history of both participants. The estimate is clamped
// to [0.10, 0.90] and defaults to 0.50 with no matching history.
func (e *Engine) EstimateWinProbability(ctx context.Context, participantA, participantB string) (float64, error) {
	key := participantA + "|" + participantB
	if cached, ok := e.cache.Get(key); ok {
		return cached.(float64), nil
	}

	history, err := e.bets.GetRecentBetsByParticipant(ctx, participantA, participantB, probabilityHistoryLimit)
	if err != nil {
		return 0, fmt.Errorf("failed to load participant history: %w", err)
	}

	probability := 0.50
	if len(history) > 0 {
		wins := 0
		for _, bet := range history {
			if bet.Result == models.BetResultWon {
				wins++
			}
		}
		probability = float64(wins) / float64(len(history))
		if probability < 0.10 {
			probability = 0.10
		}
		if probability > 0.90 {
			probability = 0.90
		}
	}

	e.cache.Set(key, probability, gocache.DefaultExpiration)
	return probability, nil
}

func (e *Engine) checkDrawdown(series *analytics.Series) *Alert {
	report := analytics.ComputeMetrics(series, e.analyticsCfg)
	depth := -report.MaxDrawdown
	if depth <= e.cfg.DrawdownThreshold {
		return nil
	}
	a := newAlert(AlertDrawdown, SeverityCritical,
		fmt.Sprintf("Drawdown of %.1f%% exceeds the %.1f%% threshold", depth, e.cfg.DrawdownThreshold),
		depth, e.cfg.DrawdownThreshold)
	return &a
}

func (e *Engine) checkLosingStreak(series *analytics.Series) *Alert {
	streak := 0
	for i := series.Len() - 1; i >= 0; i-- {
		if series.Wins[i] {
			break
		}
		streak++
	}
	if streak < e.cfg.LosingStreakThreshold {
		return nil
	}
	a := newAlert(AlertLosingStreak, SeverityWarning,
		fmt.Sprintf("%d consecutive losses reached the streak threshold of %d", streak, e.cfg.LosingStreakThreshold),
		float64(streak), float64(e.cfg.LosingStreakThreshold))
	return &a
}

func (e *Engine) checkRecentROI(series *analytics.Series) *Alert {
	cutoff := time.Now().AddDate(0, 0, -e.analyticsCfg.PeriodDays)

	var profit, staked float64
	for i := range series.Returns {
		if series.Times[i].Before(cutoff) {
			continue
		}
		profit += series.Profits[i]
		staked += series.Stakes[i]
	}
	if staked <= 0 {
		return nil
	}

	roi := profit / staked * 100
	if roi >= e.cfg.ROIThreshold {
		return nil
	}
	a := newAlert(AlertROIWarning, SeverityWarning,
		fmt.Sprintf("ROI of %.1f%% over the last %d days is below the %.1f%% threshold", roi, e.analyticsCfg.PeriodDays, e.cfg.ROIThreshold),
		roi, e.cfg.ROIThreshold)
	return &a
}

func (e *Engine) checkBankroll(ctx context.Context) (*Alert, error) {
	current, err := e.ledger.CurrentBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read current balance: %w", err)
	}
	initial, err := e.ledger.InitialBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read initial balance: %w", err)
	}
	if initial.IsZero() {
		return nil, nil
	}

	remaining, _ := current.Div(initial).Mul(decimalHundred).Float64()
	if remaining >= e.cfg.BankrollThreshold {
		return nil, nil
	}
	a := newAlert(AlertBankrollLow, SeverityCritical,
		fmt.Sprintf("Bankroll is down to %.1f%% of the initial balance (threshold %.1f%%)", remaining, e.cfg.BankrollThreshold),
		remaining, e.cfg.BankrollThreshold)
	return &a, nil
}

func newAlert(alertType AlertType, severity Severity, message string, value, threshold float64) Alert {
	return Alert{
		Type:      alertType,
		Severity:  severity,
		Message:   message,
		Value:     value,
		Threshold: threshold,
		CreatedAt: time.Now().UTC(),
	}
}
