// Package analytics implements the risk and bankroll analytics engine:
// return series construction, risk metrics, Kelly sizing, Monte Carlo
// projection and composite risk scoring.
package analytics

import (
	"sort"
	"time"

	"github.com/yourusername/punter-edge/internal/models"
)

// Series is the per-bet fractional return series derived from settled
// bets, ordered by settlement time. All downstream metrics consume it.
type Series struct {
	// Returns holds profit/stake per bet, in settlement order
	Returns []float64
	// Profits holds the monetary profit/loss per bet, same order
	Profits []float64
	// Stakes holds the monetary stake per bet, same order
	Stakes []float64
	// Wins flags each entry as a winning bet
	Wins []bool
	// Times holds the settlement timestamp per entry
	Times []time.Time
	// Skipped counts records dropped for zero or negative stakes
	Skipped int
}

// Len returns the number of usable observations
func (s *Series) Len() int {
	return len(s.Returns)
}

// WinCount returns the number of winning observations
func (s *Series) WinCount() int {
	n := 0
	for _, w := range s.Wins {
		if w {
			n++
		}
	}
	return n
}

// WinRate returns the winning fraction in [0,1], 0 when empty
func (s *Series) WinRate() float64 {
	if s.Len() == 0 {
		return 0
	}
	return float64(s.WinCount()) / float64(s.Len())
}

// TotalProfit returns the summed monetary profit/loss
func (s *Series) TotalProfit() float64 {
	total := 0.0
	for _, p := range s.Profits {
		total += p
	}
	return total
}

// BuildSeries converts settled bets into a return series. Only won/lost
// bets contribute; bets with a non-positive stake are dropped and counted
// in Skipped. Ordering is by settlement time (placement time when the
// settlement timestamp is missing), with input order breaking ties so the
// series stays deterministic.
func BuildSeries(bets []*models.Bet) *Series {
	type obs struct {
		bet   *models.Bet
		index int
	}

	usable := make([]obs, 0, len(bets))
	skipped := 0
	for i, bet := range bets {
		if !bet.IsSettled() {
			continue
		}
		if bet.Stake <= 0 {
			skipped++
			continue
		}
		usable = append(usable, obs{bet: bet, index: i})
	}

	sort.SliceStable(usable, func(i, j int) bool {
		ti, tj := usable[i].bet.SettlementTime(), usable[j].bet.SettlementTime()
		if ti.Equal(tj) {
			return usable[i].index < usable[j].index
		}
		return ti.Before(tj)
	})

	series := &Series{
		Returns: make([]float64, 0, len(usable)),
		Profits: make([]float64, 0, len(usable)),
		Stakes:  make([]float64, 0, len(usable)),
		Wins:    make([]bool, 0, len(usable)),
		Times:   make([]time.Time, 0, len(usable)),
		Skipped: skipped,
	}
	for _, o := range usable {
		series.Returns = append(series.Returns, o.bet.Return())
		series.Profits = append(series.Profits, o.bet.ProfitLoss)
		series.Stakes = append(series.Stakes, o.bet.Stake)
		series.Wins = append(series.Wins, o.bet.Result == models.BetResultWon)
		series.Times = append(series.Times, o.bet.SettlementTime())
	}

	return series
}
