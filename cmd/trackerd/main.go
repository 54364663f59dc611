// Package main provides the entry point for the risk tracker daemon.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/punter-edge/internal/alerts"
	"github.com/yourusername/punter-edge/internal/analytics"
	"github.com/yourusername/punter-edge/internal/config"
	"github.com/yourusername/punter-edge/internal/database"
	"github.com/yourusername/punter-edge/internal/health"
	"github.com/yourusername/punter-edge/internal/logger"
	"github.com/yourusername/punter-edge/internal/metrics"
	"github.com/yourusername/punter-edge/internal/notify"
	"github.com/yourusername/punter-edge/internal/push"
	"github.com/yourusername/punter-edge/internal/repository"
	"github.com/yourusername/punter-edge/internal/scheduler"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "trackerd",
	Short: "Bankroll risk tracker daemon",
	Long: `Runs periodic risk report generation and alert sweeps over the stored
betting history, pushing reports to websocket clients and alerts to the
configured webhook.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
	}).Info("Risk tracker daemon starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	appLog.Info("Database connection established")

	betRepo := repository.NewPostgresBetRepository(db)
	ledgerRepo := repository.NewPostgresLedgerRepository(db)

	engine := analytics.NewEngine(betRepo, cfg.Analytics, appLog)
	alertEngine := alerts.NewEngine(betRepo, ledgerRepo, cfg.Alerts, cfg.Analytics, appLog)
	notifier := notify.NewWebhookNotifier(cfg.Notify, appLog)
	defer notifier.Close()

	hub := push.NewHub(appLog)
	defer hub.Close()

	sched := scheduler.NewScheduler(engine, alertEngine, appLog)
	if err := sched.ScheduleReports(cfg.Scheduler.ReportIntervalSeconds); err != nil {
		return err
	}
	if err := sched.ScheduleAlertSweeps(cfg.Scheduler.AlertIntervalSeconds); err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Logger:      appLog,
		DB:          db,
		Scheduler:   sched,
	})
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}
	healthServer.SetReady(true)

	if cfg.Metrics.Enabled {
		go serveMetrics(cfg, appLog)
	}
	if cfg.Push.Enabled {
		go servePush(ctx, cfg, hub, appLog)
	}

	// Fan scheduler output to the push hub, the webhook and the gauges.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case report := <-sched.Reports():
				if report.Score != nil {
					metrics.UpdateRiskScore(report.Score.Score)
				}
				hub.Broadcast(report)
			case fired := <-sched.Alerts():
				hub.Broadcast(fired)
				if err := notifier.SendAlerts(ctx, fired); err != nil {
					appLog.WithError(err).Error("Failed to deliver alert batch")
				}
			}
		}
	}()

	<-ctx.Done()
	appLog.Info("Shutdown signal received")
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return nil, fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return nil, fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func serveMetrics(cfg *config.Config, appLog *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	appLog.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		appLog.WithError(err).Error("Metrics server error")
	}
}

func servePush(ctx context.Context, cfg *config.Config, hub *push.Hub, appLog *logrus.Logger) {
	path := cfg.Push.Path
	if path == "" {
		path = "/ws/reports"
	}

	mux := http.NewServeMux()
	mux.Handle(path, hub)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Push.Port),
		Handler:     mux,
		ReadTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	appLog.WithFields(logrus.Fields{"port": cfg.Push.Port, "path": path}).Info("Report push server starting")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		appLog.WithError(err).Error("Report push server error")
	}
}
