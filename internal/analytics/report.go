package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/punter-edge/internal/config"
	"github.com/yourusername/punter-edge/internal/metrics"
	"github.com/yourusername/punter-edge/internal/models"
	"github.com/yourusername/punter-edge/internal/repository"
)

// RiskReport is the complete analytics output for one filtered slice of
// the betting history
type RiskReport struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Filter      models.BetFilter `json:"-"`

	// Insufficient is set when the history holds too few settled bets
	// for a meaningful report; only RequiredBets and AvailableBets are
	// populated in that case
	Insufficient  bool `json:"insufficient"`
	RequiredBets  int  `json:"required_bets,omitempty"`
	AvailableBets int  `json:"available_bets,omitempty"`

	Metrics         *MetricsReport   `json:"metrics,omitempty"`
	Kelly           *KellyReport     `json:"kelly,omitempty"`
	Projection      *Projection      `json:"projection,omitempty"`
	Score           *RiskScore       `json:"score,omitempty"`
	Recommendations []string         `json:"recommendations,omitempty"`
	DrawdownPeriods []DrawdownPeriod `json:"drawdown_periods,omitempty"`
	Periods         []PeriodMetrics  `json:"periods,omitempty"`
}

// Engine orchestrates report generation over the stored betting history
type Engine struct {
	bets   repository.BetRepository
	cfg    config.AnalyticsConfig
	logger *logrus.Entry
	// seedFn supplies the Monte Carlo seed; overridable in tests
	seedFn func() int64
}

// NewEngine creates an analytics engine over the given bet repository
func NewEngine(bets repository.BetRepository, cfg config.AnalyticsConfig, logger *logrus.Logger) *Engine {
	return &Engine{
		bets:   bets,
		cfg:    cfg,
		logger: logger.WithField("component", "analytics"),
		seedFn: func() int64 { return time.Now().UnixNano() },
	}
}

// GenerateRiskReport builds the full risk report for the filtered
// betting history. Histories below the minimum settled-bet count yield
// an Insufficient report rather than unstable metrics.
func (e *Engine) GenerateRiskReport(ctx context.Context, filter models.BetFilter) (*RiskReport, error) {
	start := time.Now()

	bets, err := e.bets.GetSettledBets(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load settled bets: %w", err)
	}

	series := BuildSeries(bets)
	if series.Skipped > 0 {
		e.logger.WithField("skipped", series.Skipped).
			Warn("Dropped bets with non-positive stakes from return series")
		metrics.RecordSkippedRecords(series.Skipped)
	}

	report := &RiskReport{
		GeneratedAt: time.Now().UTC(),
		Filter:      filter,
	}

	if series.Len() < e.cfg.MinReportBets {
		report.Insufficient = true
		report.RequiredBets = e.cfg.MinReportBets
		report.AvailableBets = series.Len()
		e.logger.WithFields(logrus.Fields{
			"available": series.Len(),
			"required":  e.cfg.MinReportBets,
		}).Info("Insufficient settled bets for risk report")
		return report, nil
	}

	report.Metrics = ComputeMetrics(series, e.cfg)
	report.Kelly = ComputeOptimalKelly(bets, e.cfg)
	report.Projection = RunMonteCarlo(series, ProjectorConfig{
		Simulations:       e.cfg.MonteCarloSimulations,
		BetsPerSimulation: e.cfg.MonteCarloBets,
		Seed:              e.seedFn(),
	})
	report.Score = ComputeRiskScore(report.Metrics)
	report.Recommendations = Recommendations(report.Score, report.Metrics)
	report.DrawdownPeriods = DrawdownPeriods(series)
	report.Periods = ComputeByPeriod(series, e.cfg)

	duration := time.Since(start)
	metrics.RecordReportGenerated(duration)
	e.logger.WithFields(logrus.Fields{
		"bets":     series.Len(),
		"score":    report.Score.Score,
		"tier":     report.Score.Tier,
		"duration": duration,
	}).Info("Risk report generated")

	return report, nil
}

// SuggestStakes returns stake recommendations per sizing strategy for
// the given bankroll and risk profile
func (e *Engine) SuggestStakes(ctx context.Context, bankroll float64, profile RiskProfile) ([]SizingRecommendation, error) {
	bets, err := e.bets.GetSettledBets(ctx, models.BetFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load settled bets: %w", err)
	}

	series := BuildSeries(bets)
	if series.Len() == 0 {
		return nil, fmt.Errorf("cannot size stakes: %w", models.ErrInsufficientData)
	}

	kelly := ComputeOptimalKelly(bets, e.cfg)
	return PositionSizes(bankroll, kelly.Overall, series, profile), nil
}
