package analytics

import (
	"testing"

	"github.com/yourusername/punter-edge/internal/models"
)

func betsInCompetition(competition string, count int, stake, profit float64) []*models.Bet {
	bets := make([]*models.Bet, 0, count)
	for i := 0; i < count; i++ {
		bet := settledBet(i, stake, profit)
		bet.Competition = competition
		bets = append(bets, bet)
	}
	return bets
}

func TestKellyFractionFormula(t *testing.T) {
	// 60% win rate, wins pay +5, losses cost -10: b = 0.5,
	// kelly = (0.5*0.6 - 0.4) / 0.5 = -0.2 clamped to 0.
	losing := []*models.Bet{
		settledBet(0, 10, 5),
		settledBet(1, 10, 5),
		settledBet(2, 10, 5),
		settledBet(3, 10, -10),
		settledBet(4, 10, -10),
	}
	kelly, winRate, _, _ := kellyFraction(losing, 0.25)
	if kelly != 0 {
		t.Errorf("negative-edge kelly = %v, want 0", kelly)
	}
	if !almostEqual(winRate, 0.6, 1e-9) {
		t.Errorf("win rate = %v, want 0.6", winRate)
	}

	// 60% win rate, wins pay +10, losses cost -10: b = 1,
	// kelly = 0.6 - 0.4 = 0.2.
	even := []*models.Bet{
		settledBet(0, 10, 10),
		settledBet(1, 10, 10),
		settledBet(2, 10, 10),
		settledBet(3, 10, -10),
		settledBet(4, 10, -10),
	}
	kelly, _, _, _ = kellyFraction(even, 0.25)
	if !almostEqual(kelly, 0.2, 1e-9) {
		t.Errorf("kelly = %v, want 0.2", kelly)
	}
}

func TestKellyFractionClampedToCap(t *testing.T) {
	// 90% win rate on even payouts gives raw kelly 0.8.
	bets := make([]*models.Bet, 0, 10)
	for i := 0; i < 9; i++ {
		bets = append(bets, settledBet(i, 10, 10))
	}
	bets = append(bets, settledBet(9, 10, -10))

	kelly, _, _, _ := kellyFraction(bets, 0.25)
	if kelly != 0.25 {
		t.Errorf("kelly = %v, want cap 0.25", kelly)
	}
}

func TestKellyFractionNoLosses(t *testing.T) {
	bets := []*models.Bet{settledBet(0, 10, 10), settledBet(1, 10, 10)}

	kelly, _, _, avgLoss := kellyFraction(bets, 0.25)
	if kelly != 0 {
		t.Errorf("kelly without observed losses = %v, want 0", kelly)
	}
	if avgLoss != 0 {
		t.Errorf("avg loss = %v, want 0", avgLoss)
	}
}

func TestKellySegmentMinimum(t *testing.T) {
	cfg := testAnalyticsConfig()

	thin := betsInCompetition("Serie A", 9, 10, 10)
	thick := betsInCompetition("La Liga", 10, 10, 10)

	report := ComputeOptimalKelly(append(thin, thick...), cfg)

	if _, ok := report.ByCompetition["Serie A"]; ok {
		t.Error("competition with 9 bets must be excluded from segment map")
	}
	if _, ok := report.ByCompetition["La Liga"]; !ok {
		t.Error("competition with 10 bets must appear in segment map")
	}
}

func TestRiskProfileFactors(t *testing.T) {
	tests := []struct {
		profile RiskProfile
		want    float64
	}{
		{RiskProfileConservative, 0.25},
		{RiskProfileModerate, 0.5},
		{RiskProfileAggressive, 0.75},
		{RiskProfileFullKelly, 1.0},
		{RiskProfile("unknown"), 0.5},
	}
	for _, tt := range tests {
		if got := tt.profile.Factor(); got != tt.want {
			t.Errorf("%s factor = %v, want %v", tt.profile, got, tt.want)
		}
	}
}

func TestPositionSizesClamping(t *testing.T) {
	series := BuildSeries([]*models.Bet{
		settledBet(0, 10, 10),
		settledBet(1, 10, 10),
		settledBet(2, 10, -10),
	})

	sizes := PositionSizes(1000, 0.25, series, RiskProfileFullKelly)
	if len(sizes) != 5 {
		t.Fatalf("expected 5 strategies, got %d", len(sizes))
	}

	for _, s := range sizes {
		if s.Amount < 1.0 || s.Amount > 100.0 {
			t.Errorf("%s stake %v outside [1, 100] safety band", s.Strategy, s.Amount)
		}
		if !almostEqual(s.PercentOfBankroll, s.Amount/10, 1e-9) {
			t.Errorf("%s percent = %v inconsistent with amount %v", s.Strategy, s.PercentOfBankroll, s.Amount)
		}
	}
}

func TestPositionSizesZeroBankroll(t *testing.T) {
	if sizes := PositionSizes(0, 0.1, BuildSeries(nil), RiskProfileModerate); sizes != nil {
		t.Errorf("expected nil for non-positive bankroll, got %v", sizes)
	}
}
