package analytics

import (
	"testing"

	"github.com/yourusername/punter-edge/internal/models"
)

func TestDrawdownPeriodsRecoveredAndOngoing(t *testing.T) {
	// Curve: 0.5, -0.5, 0.1, 0.6, 0.1 -> one recovered drawdown
	// (bets 2-3) and one still open at the end.
	series := BuildSeries([]*models.Bet{
		settledBet(0, 10, 5),
		settledBet(1, 10, -10),
		settledBet(2, 10, 6),
		settledBet(3, 10, 5),
		settledBet(4, 10, -5),
	})

	periods := DrawdownPeriods(series)
	if len(periods) != 2 {
		t.Fatalf("expected 2 drawdown periods, got %d", len(periods))
	}

	recovered := periods[0]
	if recovered.Ongoing {
		t.Error("first period should be recovered, not ongoing")
	}
	if recovered.Bets != 2 {
		t.Errorf("first period bets = %d, want 2", recovered.Bets)
	}
	if !almostEqual(recovered.MaxDrawdown, -100, 1e-9) {
		t.Errorf("first period depth = %v, want -100", recovered.MaxDrawdown)
	}

	open := periods[1]
	if !open.Ongoing {
		t.Error("last period should be ongoing")
	}
	if !almostEqual(open.MaxDrawdown, -50, 1e-9) {
		t.Errorf("open period depth = %v, want -50", open.MaxDrawdown)
	}
}

func TestDrawdownPeriodsNoneOnMonotonicRise(t *testing.T) {
	series := BuildSeries([]*models.Bet{
		settledBet(0, 10, 5),
		settledBet(1, 10, 5),
		settledBet(2, 10, 5),
	})

	if periods := DrawdownPeriods(series); len(periods) != 0 {
		t.Errorf("rising curve should have no drawdown periods, got %d", len(periods))
	}
}

func TestComputeByPeriodMinimumBets(t *testing.T) {
	cfg := testAnalyticsConfig()
	cfg.MinPeriodBets = 3

	// Five bets in the first 30-day window, one 40 days later.
	bets := []*models.Bet{
		settledBet(0, 10, 5),
		settledBet(2, 10, -10),
		settledBet(5, 10, 5),
		settledBet(10, 10, 5),
		settledBet(20, 10, -10),
		settledBet(40, 10, 5),
	}

	periods := ComputeByPeriod(BuildSeries(bets), cfg)
	if len(periods) != 1 {
		t.Fatalf("expected 1 qualifying period, got %d", len(periods))
	}

	p := periods[0]
	if p.Bets != 5 {
		t.Errorf("period bets = %d, want 5", p.Bets)
	}
	if !almostEqual(p.WinRate, 60, 1e-9) {
		t.Errorf("period win rate = %v, want 60", p.WinRate)
	}
	if !almostEqual(p.TotalProfit, -5, 1e-9) {
		t.Errorf("period profit = %v, want -5", p.TotalProfit)
	}
}

func TestComputeByPeriodEmptySeries(t *testing.T) {
	if periods := ComputeByPeriod(BuildSeries(nil), testAnalyticsConfig()); periods != nil {
		t.Errorf("expected nil for empty series, got %v", periods)
	}
}
