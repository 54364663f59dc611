package analytics

import "math"

// RiskTier is the qualitative classification of a composite risk score
type RiskTier string

const (
	RiskTierVeryLow  RiskTier = "Very Low"
	RiskTierLow      RiskTier = "Low"
	RiskTierModerate RiskTier = "Moderate"
	RiskTierHigh     RiskTier = "High"
	RiskTierVeryHigh RiskTier = "Very High"
)

// RiskScore holds the composite 0-100 risk score, its component
// contributions and the derived tier
type RiskScore struct {
	Score float64  `json:"score"`
	Tier  RiskTier `json:"tier"`

	VolatilityComponent float64 `json:"volatility_component"`
	DrawdownComponent   float64 `json:"drawdown_component"`
	SharpeComponent     float64 `json:"sharpe_component"`
	WinRateComponent    float64 `json:"win_rate_component"`
	VaRComponent        float64 `json:"var_component"`
}

// ComputeRiskScore combines volatility, drawdown, Sharpe, win rate and
// tail risk into one bounded score. Each component has a fixed ceiling
// so no single metric can dominate the composite.
func ComputeRiskScore(metrics *MetricsReport) *RiskScore {
	score := &RiskScore{}

	score.VolatilityComponent = math.Min(30, metrics.Volatility*3)

	score.DrawdownComponent = math.Min(25, math.Abs(metrics.MaxDrawdown)*2.5)

	if metrics.SharpeRatio > 0 {
		score.SharpeComponent = math.Max(0, 20-metrics.SharpeRatio*10)
	} else {
		score.SharpeComponent = 20
	}

	score.WinRateComponent = math.Max(0, 15-metrics.WinRate*0.3)

	score.VaRComponent = math.Min(10, math.Abs(metrics.VaR95)*2)

	score.Score = score.VolatilityComponent + score.DrawdownComponent +
		score.SharpeComponent + score.WinRateComponent + score.VaRComponent
	if score.Score > 100 {
		score.Score = 100
	}

	score.Tier = tierFor(score.Score)
	return score
}

func tierFor(score float64) RiskTier {
	switch {
	case score <= 20:
		return RiskTierVeryLow
	case score <= 40:
		return RiskTierLow
	case score <= 60:
		return RiskTierModerate
	case score <= 80:
		return RiskTierHigh
	default:
		return RiskTierVeryHigh
	}
}

// Recommendations derives actionable guidance from the score and the
// underlying metrics. The leading recommendation is set by the score
// band; metric-specific warnings follow.
func Recommendations(score *RiskScore, metrics *MetricsReport) []string {
	var recs []string

	switch {
	case score.Score > 80:
		recs = append(recs,
			"Critical risk level: stop betting and reassess the whole approach before staking again")
	case score.Score > 60:
		recs = append(recs,
			"High risk level: cut stake sizes sharply and avoid high-odds selections")
	case score.Score > 40:
		recs = append(recs,
			"Moderate risk level: tighten staking discipline and review recent losing segments")
	default:
		recs = append(recs,
			"Risk profile is under control: maintain the current staking discipline")
	}

	if math.Abs(metrics.MaxDrawdown) > 15 {
		recs = append(recs,
			"Drawdown exceeds 15% of cumulative returns: consider a reduced stake until the curve recovers")
	}
	if metrics.SharpeRatio < 0 {
		recs = append(recs,
			"Negative risk-adjusted return: the current selection process is losing money per unit of risk taken")
	}
	if metrics.ProfitFactor < 1 && metrics.TotalBets > 0 {
		recs = append(recs,
			"Gross losses outweigh gross winnings: review bet selection before increasing volume")
	}
	if metrics.WinRate < 40 && metrics.TotalBets > 0 {
		recs = append(recs,
			"Win rate below 40%: verify that average winning returns justify the hit rate")
	}

	return recs
}
