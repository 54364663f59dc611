package analytics

import (
	"time"

	"github.com/yourusername/punter-edge/internal/config"
)

// DrawdownPeriod describes one peak-to-recovery stretch of the
// cumulative return curve
type DrawdownPeriod struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Bets        int       `json:"bets"`
	MaxDrawdown float64   `json:"max_drawdown"`
	Ongoing     bool      `json:"ongoing"`
}

// DrawdownPeriods extracts every distinct drawdown stretch from the
// series. A period opens when the cumulative curve falls below its peak
// and closes when the peak is regained; a period still open at the end
// of the series is reported as ongoing.
func DrawdownPeriods(series *Series) []DrawdownPeriod {
	var periods []DrawdownPeriod

	cumulative := 0.0
	peak := 0.0
	var current *DrawdownPeriod
	depth := 0.0

	for i, r := range series.Returns {
		cumulative += r

		if cumulative >= peak {
			peak = cumulative
			if current != nil {
				current.End = series.Times[i]
				current.MaxDrawdown = depth * 100
				periods = append(periods, *current)
				current = nil
			}
			continue
		}

		if current == nil {
			current = &DrawdownPeriod{Start: series.Times[i]}
			depth = 0
		}
		current.Bets++
		if dd := cumulative - peak; dd < depth {
			depth = dd
		}
	}

	if current != nil {
		current.End = series.Times[series.Len()-1]
		current.MaxDrawdown = depth * 100
		current.Ongoing = true
		periods = append(periods, *current)
	}

	return periods
}

// PeriodMetrics holds summary metrics for one fixed-length window of
// the series
type PeriodMetrics struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Bets        int       `json:"bets"`
	WinRate     float64   `json:"win_rate"`
	TotalProfit float64   `json:"total_profit"`
	MeanReturn  float64   `json:"mean_return"`
	Volatility  float64   `json:"volatility"`
	SharpeRatio float64   `json:"sharpe_ratio"`
}

// ComputeByPeriod buckets the series into consecutive PeriodDays-long
// windows anchored at the first settlement and summarizes each window
// holding at least MinPeriodBets observations
func ComputeByPeriod(series *Series, cfg config.AnalyticsConfig) []PeriodMetrics {
	if series.Len() == 0 {
		return nil
	}

	window := time.Duration(cfg.PeriodDays) * 24 * time.Hour
	anchor := series.Times[0]

	type bucket struct {
		returns []float64
		profits []float64
		wins    int
		start   time.Time
	}
	buckets := make(map[int]*bucket)
	order := make([]int, 0)

	for i := range series.Returns {
		idx := int(series.Times[i].Sub(anchor) / window)
		b, ok := buckets[idx]
		if !ok {
			b = &bucket{start: anchor.Add(time.Duration(idx) * window)}
			buckets[idx] = b
			order = append(order, idx)
		}
		b.returns = append(b.returns, series.Returns[i])
		b.profits = append(b.profits, series.Profits[i])
		if series.Wins[i] {
			b.wins++
		}
	}

	var results []PeriodMetrics
	for _, idx := range order {
		b := buckets[idx]
		if len(b.returns) < cfg.MinPeriodBets {
			continue
		}

		meanReturn := mean(b.returns)
		stdDev := popStdDev(b.returns)
		pm := PeriodMetrics{
			Start:       b.start,
			End:         b.start.Add(window),
			Bets:        len(b.returns),
			WinRate:     float64(b.wins) / float64(len(b.returns)) * 100,
			TotalProfit: sum(b.profits),
			MeanReturn:  meanReturn * 100,
			Volatility:  stdDev * 100,
			SharpeRatio: sharpeRatio(meanReturn, stdDev, cfg.RiskFreeRate),
		}
		results = append(results, pm)
	}

	return results
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
