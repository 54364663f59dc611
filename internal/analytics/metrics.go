package analytics

import (
	"math"

	"github.com/yourusername/punter-edge/internal/config"
)

// MetricsReport holds the full set of risk metrics for a return series.
// Percentage fields (win rate, volatility, drawdown, VaR, CVaR, mean
// return) are scaled to percent; ratios (Sharpe, Sortino, Calmar,
// profit factor) are unscaled.
type MetricsReport struct {
	TotalBets   int     `json:"total_bets"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinRate     float64 `json:"win_rate"`
	TotalProfit float64 `json:"total_profit"`

	MeanReturn float64 `json:"mean_return"`
	Volatility float64 `json:"volatility"`

	SharpeRatio  float64 `json:"sharpe_ratio"`
	SortinoRatio float64 `json:"sortino_ratio"`
	CalmarRatio  float64 `json:"calmar_ratio"`

	MaxDrawdown float64 `json:"max_drawdown"`
	VaR95       float64 `json:"var_95"`
	CVaR95      float64 `json:"cvar_95"`

	Skewness     float64 `json:"skewness"`
	Kurtosis     float64 `json:"kurtosis"`
	ProfitFactor float64 `json:"profit_factor"`

	InformationRatio float64 `json:"information_ratio"`
	TreynorRatio     float64 `json:"treynor_ratio"`
	JensensAlpha     float64 `json:"jensens_alpha"`

	SkippedRecords int `json:"skipped_records"`
}

// ComputeMetrics derives the full metrics report from a return series.
// An empty series yields a zero-valued report.
func ComputeMetrics(series *Series, cfg config.AnalyticsConfig) *MetricsReport {
	report := &MetricsReport{
		TotalBets:      series.Len(),
		Wins:           series.WinCount(),
		SkippedRecords: series.Skipped,
	}
	report.Losses = report.TotalBets - report.Wins
	if series.Len() == 0 {
		return report
	}

	returns := series.Returns
	meanReturn := mean(returns)
	stdDev := popStdDev(returns)

	report.WinRate = series.WinRate() * 100
	report.TotalProfit = series.TotalProfit()
	report.MeanReturn = meanReturn * 100
	report.Volatility = stdDev * 100

	report.SharpeRatio = sharpeRatio(meanReturn, stdDev, cfg.RiskFreeRate)
	report.SortinoRatio = sortinoRatio(returns, meanReturn, cfg.RiskFreeRate)

	maxDD := maxDrawdownFraction(returns)
	report.MaxDrawdown = maxDD * 100
	report.CalmarRatio = calmarRatio(meanReturn, maxDD, cfg.AnnualizationFactor)

	report.VaR95, report.CVaR95 = valueAtRisk(returns, 5)

	report.Skewness = skewness(returns)
	report.Kurtosis = excessKurtosis(returns)
	report.ProfitFactor = profitFactor(series.Profits)

	report.InformationRatio = informationRatio(returns)
	report.TreynorRatio = meanReturn - cfg.RiskFreeRate
	report.JensensAlpha = jensensAlpha(meanReturn, cfg.RiskFreeRate) * 100

	return report
}

func sharpeRatio(meanReturn, stdDev, riskFreeRate float64) float64 {
	if stdDev == 0 {
		return 0
	}
	return (meanReturn - riskFreeRate) / stdDev
}

// sortinoRatio penalizes only downside deviation. A series with no
// returns below the risk-free rate has no downside risk at all: the
// ratio is +Inf when the mean excess return is positive, 0 otherwise.
func sortinoRatio(returns []float64, meanReturn, riskFreeRate float64) float64 {
	downside := make([]float64, 0, len(returns))
	for _, r := range returns {
		if r < riskFreeRate {
			downside = append(downside, r)
		}
	}

	excess := meanReturn - riskFreeRate
	if len(downside) == 0 {
		if excess > 0 {
			return math.Inf(1)
		}
		return 0
	}

	downsideDev := popStdDev(downside)
	if downsideDev == 0 {
		if excess > 0 {
			return math.Inf(1)
		}
		return 0
	}

	return excess / downsideDev
}

func calmarRatio(meanReturn, maxDDFraction, annualizationFactor float64) float64 {
	if maxDDFraction == 0 {
		return 0
	}
	return (meanReturn * annualizationFactor) / math.Abs(maxDDFraction)
}

// maxDrawdownFraction walks the cumulative return curve and returns the
// deepest peak-to-trough fall as a non-positive fraction
func maxDrawdownFraction(returns []float64) float64 {
	cumulative := 0.0
	peak := 0.0
	maxDD := 0.0
	for _, r := range returns {
		cumulative += r
		if cumulative > peak {
			peak = cumulative
		}
		if dd := cumulative - peak; dd < maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// valueAtRisk returns the VaR and CVaR at the given tail percentile,
// both scaled to percent. CVaR averages the returns at or below the
// VaR threshold.
func valueAtRisk(returns []float64, tailPercentile float64) (varPct, cvarPct float64) {
	threshold := percentile(returns, tailPercentile)

	tail := make([]float64, 0, len(returns))
	for _, r := range returns {
		if r <= threshold {
			tail = append(tail, r)
		}
	}

	cvar := threshold
	if len(tail) > 0 {
		cvar = mean(tail)
	}
	return threshold * 100, cvar * 100
}

// profitFactor is gross winnings over gross losses. With wins and no
// losses the factor is unbounded, reported as +Inf; an empty or
// loss-free winless series reports 0.
func profitFactor(profits []float64) float64 {
	grossWin, grossLoss := 0.0, 0.0
	for _, p := range profits {
		if p > 0 {
			grossWin += p
		} else if p < 0 {
			grossLoss += -p
		}
	}
	if grossLoss == 0 {
		if grossWin > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return grossWin / grossLoss
}

// informationRatio measures mean active return over tracking error
// against a flat zero benchmark
func informationRatio(returns []float64) float64 {
	stdDev := popStdDev(returns)
	if stdDev == 0 {
		return 0
	}
	return mean(returns) / stdDev
}

// jensensAlpha against a flat zero benchmark with unit beta reduces to
// the mean return itself; kept as a named step so the benchmark can
// change without touching callers
func jensensAlpha(meanReturn, riskFreeRate float64) float64 {
	benchmarkMean := 0.0
	beta := 1.0
	return meanReturn - (riskFreeRate + beta*(benchmarkMean-riskFreeRate))
}
