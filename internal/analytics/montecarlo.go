package analytics

import (
	"math/rand"
)

// ProjectorConfig controls a Monte Carlo bankroll projection run
type ProjectorConfig struct {
	Simulations       int
	BetsPerSimulation int
	// Seed makes a run reproducible; 0 is a valid fixed seed
	Seed int64
}

// Projection summarizes the simulated distribution of cumulative
// returns. All values are percent-scaled.
type Projection struct {
	Simulations       int `json:"simulations"`
	BetsPerSimulation int `json:"bets_per_simulation"`

	MeanFinalReturn float64 `json:"mean_final_return"`
	StdFinalReturn  float64 `json:"std_final_return"`

	Percentiles map[int]float64 `json:"percentiles"`

	ProbProfit float64 `json:"prob_profit"`
	ProbLoss10 float64 `json:"prob_loss_10"`
	ProbLoss20 float64 `json:"prob_loss_20"`

	AvgMaxDrawdown   float64 `json:"avg_max_drawdown"`
	WorstMaxDrawdown float64 `json:"worst_max_drawdown"`
}

var projectionPercentiles = []int{5, 25, 50, 75, 95}

// RunMonteCarlo projects future cumulative returns by resampling a
// two-point outcome model fitted to the observed series: each simulated
// bet wins the average winning return with the observed win rate, and
// loses the average losing return otherwise. Returns nil when the
// series is empty.
func RunMonteCarlo(series *Series, cfg ProjectorConfig) *Projection {
	if series.Len() == 0 || cfg.Simulations <= 0 || cfg.BetsPerSimulation <= 0 {
		return nil
	}

	winRate := series.WinRate()
	avgWinReturn, avgLossReturn := outcomeModel(series)

	rng := rand.New(rand.NewSource(cfg.Seed))

	finals := make([]float64, cfg.Simulations)
	maxDrawdowns := make([]float64, cfg.Simulations)

	for sim := 0; sim < cfg.Simulations; sim++ {
		cumulative := 0.0
		peak := 0.0
		maxDD := 0.0
		for bet := 0; bet < cfg.BetsPerSimulation; bet++ {
			if rng.Float64() < winRate {
				cumulative += avgWinReturn
			} else {
				cumulative += avgLossReturn
			}
			if cumulative > peak {
				peak = cumulative
			}
			if dd := peak - cumulative; dd > maxDD {
				maxDD = dd
			}
		}
		finals[sim] = cumulative
		maxDrawdowns[sim] = maxDD
	}

	projection := &Projection{
		Simulations:       cfg.Simulations,
		BetsPerSimulation: cfg.BetsPerSimulation,
		MeanFinalReturn:   mean(finals) * 100,
		StdFinalReturn:    popStdDev(finals) * 100,
		Percentiles:       make(map[int]float64, len(projectionPercentiles)),
	}

	for _, p := range projectionPercentiles {
		projection.Percentiles[p] = percentile(finals, float64(p)) * 100
	}

	profitable, loss10, loss20 := 0, 0, 0
	worstDD := 0.0
	for sim := 0; sim < cfg.Simulations; sim++ {
		if finals[sim] > 0 {
			profitable++
		}
		if finals[sim] < -0.10 {
			loss10++
		}
		if finals[sim] < -0.20 {
			loss20++
		}
		if maxDrawdowns[sim] > worstDD {
			worstDD = maxDrawdowns[sim]
		}
	}

	n := float64(cfg.Simulations)
	projection.ProbProfit = float64(profitable) / n * 100
	projection.ProbLoss10 = float64(loss10) / n * 100
	projection.ProbLoss20 = float64(loss20) / n * 100
	projection.AvgMaxDrawdown = mean(maxDrawdowns) * 100
	projection.WorstMaxDrawdown = worstDD * 100

	return projection
}

// outcomeModel fits the two-point model: average winning return and
// average losing return observed in the series
func outcomeModel(series *Series) (avgWin, avgLoss float64) {
	var winSum, lossSum float64
	var winCount, lossCount int
	for i, r := range series.Returns {
		if series.Wins[i] {
			winSum += r
			winCount++
		} else {
			lossSum += r
			lossCount++
		}
	}
	if winCount > 0 {
		avgWin = winSum / float64(winCount)
	}
	if lossCount > 0 {
		avgLoss = lossSum / float64(lossCount)
	}
	return avgWin, avgLoss
}
