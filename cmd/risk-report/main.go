// Package main provides the one-shot risk analytics CLI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/punter-edge/internal/alerts"
	"github.com/yourusername/punter-edge/internal/analytics"
	"github.com/yourusername/punter-edge/internal/config"
	"github.com/yourusername/punter-edge/internal/database"
	"github.com/yourusername/punter-edge/internal/ledger"
	"github.com/yourusername/punter-edge/internal/logger"
	"github.com/yourusername/punter-edge/internal/models"
	"github.com/yourusername/punter-edge/internal/repository"
)

var (
	configFile  string
	competition string
	betType     string
	fromDate    string
	toDate      string
	asJSON      bool

	appLog     *logrus.Logger
	db         *database.DB
	betRepo    repository.BetRepository
	ledgerRepo repository.LedgerRepository
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a text summary")

	rootCmd.Flags().StringVar(&competition, "competition", "", "Restrict the report to one competition")
	rootCmd.Flags().StringVar(&betType, "bet-type", "", "Restrict the report to one bet type")
	rootCmd.Flags().StringVar(&fromDate, "from", "", "Start date (YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&toDate, "to", "", "End date (YYYY-MM-DD)")

	sizingCmd.Flags().Float64Var(&bankroll, "bankroll", 0, "Current bankroll")
	sizingCmd.Flags().StringVar(&riskProfile, "profile", "moderate", "Risk profile: conservative, moderate, aggressive, full_kelly")
	_ = sizingCmd.MarkFlagRequired("bankroll")

	probabilityCmd.Flags().StringVar(&homeTeam, "home", "", "Home participant")
	probabilityCmd.Flags().StringVar(&awayTeam, "away", "", "Away participant")
	_ = probabilityCmd.MarkFlagRequired("home")
	_ = probabilityCmd.MarkFlagRequired("away")

	rootCmd.AddCommand(sizingCmd, recalcCmd, probabilityCmd)
}

var rootCmd = &cobra.Command{
	Use:   "risk-report",
	Short: "Generate a bankroll risk report from the betting history",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
	RunE: runReport,
}

var (
	bankroll    float64
	riskProfile string
	homeTeam    string
	awayTeam    string
)

var sizingCmd = &cobra.Command{
	Use:   "sizing",
	Short: "Suggest stake sizes for the current bankroll",
	RunE:  runSizing,
}

var recalcCmd = &cobra.Command{
	Use:   "recalc [entry-id]",
	Short: "Recalculate ledger balances, optionally deleting one entry first",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRecalc,
}

var probabilityCmd = &cobra.Command{
	Use:   "probability",
	Short: "Estimate the win probability of a prospective bet",
	RunE:  runProbability,
}

var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog = logger.NewLogger("warn")

	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	betRepo = repository.NewPostgresBetRepository(db)
	ledgerRepo = repository.NewPostgresLedgerRepository(db)
	return nil
}

func buildFilter() (models.BetFilter, error) {
	filter := models.BetFilter{Competition: competition, BetType: betType}
	if fromDate != "" {
		t, err := time.Parse("2006-01-02", fromDate)
		if err != nil {
			return filter, fmt.Errorf("invalid --from date: %w", err)
		}
		filter.From = &t
	}
	if toDate != "" {
		t, err := time.Parse("2006-01-02", toDate)
		if err != nil {
			return filter, fmt.Errorf("invalid --to date: %w", err)
		}
		filter.To = &t
	}
	return filter, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	filter, err := buildFilter()
	if err != nil {
		return err
	}

	engine := analytics.NewEngine(betRepo, cfg.Analytics, appLog)
	report, err := engine.GenerateRiskReport(cmd.Context(), filter)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(report)
	}
	printReport(report)
	return nil
}

func runSizing(cmd *cobra.Command, args []string) error {
	engine := analytics.NewEngine(betRepo, cfg.Analytics, appLog)
	sizes, err := engine.SuggestStakes(cmd.Context(), bankroll, analytics.RiskProfile(riskProfile))
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(sizes)
	}
	fmt.Printf("Stake suggestions for bankroll %.2f (%s profile):\n", bankroll, riskProfile)
	for _, s := range sizes {
		fmt.Printf("  %-20s %10.2f  (%.2f%% of bankroll)\n", s.Strategy, s.Amount, s.PercentOfBankroll)
	}
	return nil
}

func runRecalc(cmd *cobra.Command, args []string) error {
	recalc := ledger.NewRecalculator(ledgerRepo, appLog)

	if len(args) == 1 {
		entryID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid entry id: %w", err)
		}
		if err := recalc.RecalculateAfterDeletion(cmd.Context(), entryID); err != nil {
			return err
		}
		fmt.Printf("Entry %s deleted, balances recalculated\n", entryID)
	} else {
		if err := recalc.Recalculate(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Ledger balances recalculated")
	}

	balance, err := ledgerRepo.CurrentBalance(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("Current balance: %s\n", balance)
	return nil
}

func runProbability(cmd *cobra.Command, args []string) error {
	alertEngine := alerts.NewEngine(betRepo, ledgerRepo, cfg.Alerts, cfg.Analytics, appLog)
	probability, err := alertEngine.EstimateWinProbability(cmd.Context(), homeTeam, awayTeam)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(map[string]float64{"win_probability": probability})
	}
	fmt.Printf("Estimated win probability %s vs %s: %.0f%%\n", homeTeam, awayTeam, probability*100)
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printReport(report *analytics.RiskReport) {
	if report.Insufficient {
		fmt.Printf("Insufficient history: %d settled bets available, %d required\n",
			report.AvailableBets, report.RequiredBets)
		return
	}

	m := report.Metrics
	fmt.Printf("Risk report generated %s\n\n", report.GeneratedAt.Format(time.RFC3339))
	fmt.Printf("Bets: %d settled (%d won, %d lost), win rate %.1f%%\n", m.TotalBets, m.Wins, m.Losses, m.WinRate)
	fmt.Printf("Total profit: %.2f, mean return %.2f%%, volatility %.2f%%\n", m.TotalProfit, m.MeanReturn, m.Volatility)
	fmt.Printf("Sharpe %.2f | Sortino %s | Calmar %.2f | Profit factor %s\n",
		m.SharpeRatio, formatRatio(m.SortinoRatio), m.CalmarRatio, formatRatio(m.ProfitFactor))
	fmt.Printf("Max drawdown %.1f%%, VaR(95) %.1f%%, CVaR(95) %.1f%%\n\n", m.MaxDrawdown, m.VaR95, m.CVaR95)

	fmt.Printf("Risk score: %.1f (%s)\n", report.Score.Score, report.Score.Tier)
	fmt.Printf("Optimal Kelly fraction: %.1f%%\n\n", report.Kelly.Overall*100)

	if p := report.Projection; p != nil {
		fmt.Printf("Projection over %d bets (%d simulations):\n", p.BetsPerSimulation, p.Simulations)
		fmt.Printf("  mean final return %.1f%%, P(profit) %.1f%%, P(<-20%%) %.1f%%\n",
			p.MeanFinalReturn, p.ProbProfit, p.ProbLoss20)
		fmt.Printf("  median %.1f%%, p5 %.1f%%, p95 %.1f%%\n\n",
			p.Percentiles[50], p.Percentiles[5], p.Percentiles[95])
	}

	fmt.Println("Recommendations:")
	for _, rec := range report.Recommendations {
		fmt.Printf("  - %s\n", rec)
	}
}

func formatRatio(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", v)
}
