package analytics

import (
	"github.com/yourusername/punter-edge/internal/config"
	"github.com/yourusername/punter-edge/internal/models"
)

// RiskProfile selects how much of the full Kelly fraction a stake plan
// commits
type RiskProfile string

const (
	RiskProfileConservative RiskProfile = "conservative"
	RiskProfileModerate     RiskProfile = "moderate"
	RiskProfileAggressive   RiskProfile = "aggressive"
	RiskProfileFullKelly    RiskProfile = "full_kelly"
)

// Factor returns the Kelly multiplier for the profile. Unknown profiles
// fall back to moderate.
func (p RiskProfile) Factor() float64 {
	switch p {
	case RiskProfileConservative:
		return 0.25
	case RiskProfileModerate:
		return 0.5
	case RiskProfileAggressive:
		return 0.75
	case RiskProfileFullKelly:
		return 1.0
	default:
		return 0.5
	}
}

// KellyReport holds the optimal Kelly fraction overall and per segment.
// Segments with fewer than the minimum bet count are omitted entirely
// rather than reported with an unreliable estimate.
type KellyReport struct {
	Overall       float64            `json:"overall"`
	ByCompetition map[string]float64 `json:"by_competition"`
	ByBetType     map[string]float64 `json:"by_bet_type"`
	WinRate       float64            `json:"win_rate"`
	AvgWin        float64            `json:"avg_win"`
	AvgLoss       float64            `json:"avg_loss"`
}

// ComputeOptimalKelly derives the Kelly criterion fraction from settled
// bets, overall and segmented by competition and bet type
func ComputeOptimalKelly(bets []*models.Bet, cfg config.AnalyticsConfig) *KellyReport {
	report := &KellyReport{
		ByCompetition: make(map[string]float64),
		ByBetType:     make(map[string]float64),
	}

	settled := settledBets(bets)
	report.Overall, report.WinRate, report.AvgWin, report.AvgLoss = kellyFraction(settled, cfg.KellyCap)

	byCompetition := make(map[string][]*models.Bet)
	byBetType := make(map[string][]*models.Bet)
	for _, bet := range settled {
		byCompetition[bet.Competition] = append(byCompetition[bet.Competition], bet)
		byBetType[bet.BetType] = append(byBetType[bet.BetType], bet)
	}

	for competition, group := range byCompetition {
		if len(group) < cfg.MinSegmentBets {
			continue
		}
		k, _, _, _ := kellyFraction(group, cfg.KellyCap)
		report.ByCompetition[competition] = k
	}
	for betType, group := range byBetType {
		if len(group) < cfg.MinSegmentBets {
			continue
		}
		k, _, _, _ := kellyFraction(group, cfg.KellyCap)
		report.ByBetType[betType] = k
	}

	return report
}

func settledBets(bets []*models.Bet) []*models.Bet {
	settled := make([]*models.Bet, 0, len(bets))
	for _, bet := range bets {
		if bet.IsSettled() && bet.Stake > 0 {
			settled = append(settled, bet)
		}
	}
	return settled
}

// kellyFraction computes (b*p - q) / b from monetary win/loss averages,
// clamped to [0, kellyCap]. With no observed losses the edge ratio is
// undefined and the fraction is 0.
func kellyFraction(bets []*models.Bet, kellyCap float64) (kelly, winRate, avgWin, avgLoss float64) {
	if len(bets) == 0 {
		return 0, 0, 0, 0
	}

	var winSum, lossSum float64
	var winCount, lossCount int
	for _, bet := range bets {
		if bet.Result == models.BetResultWon {
			winSum += bet.ProfitLoss
			winCount++
		} else {
			lossSum += bet.ProfitLoss
			lossCount++
		}
	}

	winRate = float64(winCount) / float64(len(bets))
	if winCount > 0 {
		avgWin = winSum / float64(winCount)
	}
	if lossCount > 0 {
		avgLoss = lossSum / float64(lossCount)
	}

	if avgLoss == 0 || avgWin <= 0 {
		return 0, winRate, avgWin, avgLoss
	}

	b := avgWin / -avgLoss
	if b <= 0 {
		return 0, winRate, avgWin, avgLoss
	}

	q := 1 - winRate
	kelly = (b*winRate - q) / b
	if kelly < 0 {
		kelly = 0
	}
	if kelly > kellyCap {
		kelly = kellyCap
	}
	return kelly, winRate, avgWin, avgLoss
}

// SizingStrategy names one stake-sizing approach
type SizingStrategy string

const (
	StrategyFixed2Pct     SizingStrategy = "fixed_2pct"
	StrategyFixed5Pct     SizingStrategy = "fixed_5pct"
	StrategyKelly         SizingStrategy = "kelly"
	StrategyVolatility    SizingStrategy = "volatility_adjusted"
	StrategyConfidence    SizingStrategy = "confidence_based"
)

const (
	minStakeFraction = 0.001
	maxStakeFraction = 0.10
)

// SizingRecommendation is one suggested stake under a named strategy
type SizingRecommendation struct {
	Strategy          SizingStrategy `json:"strategy"`
	Amount            float64        `json:"amount"`
	PercentOfBankroll float64        `json:"percent_of_bankroll"`
}

// PositionSizes suggests a stake per strategy for the given bankroll.
// Every suggestion is clamped to [0.1%, 10%] of bankroll so no single
// strategy can recommend a ruinous or meaningless stake.
func PositionSizes(bankroll, kelly float64, series *Series, profile RiskProfile) []SizingRecommendation {
	if bankroll <= 0 {
		return nil
	}

	stdDev := popStdDev(series.Returns)
	if stdDev < 0.01 {
		stdDev = 0.01
	}

	raw := []SizingRecommendation{
		{Strategy: StrategyFixed2Pct, Amount: bankroll * 0.02},
		{Strategy: StrategyFixed5Pct, Amount: bankroll * 0.05},
		{Strategy: StrategyKelly, Amount: bankroll * kelly * profile.Factor()},
		{Strategy: StrategyVolatility, Amount: bankroll * (0.02 / stdDev)},
		{Strategy: StrategyConfidence, Amount: bankroll * 0.01 * (series.WinRate() * 10)},
	}

	minStake := bankroll * minStakeFraction
	maxStake := bankroll * maxStakeFraction
	for i := range raw {
		if raw[i].Amount < minStake {
			raw[i].Amount = minStake
		}
		if raw[i].Amount > maxStake {
			raw[i].Amount = maxStake
		}
		raw[i].PercentOfBankroll = raw[i].Amount / bankroll * 100
	}

	return raw
}
