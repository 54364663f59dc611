// Package config provides configuration management for the Punter Edge application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Analytics AnalyticsConfig `mapstructure:"analytics" validate:"required"`
	Alerts    AlertsConfig    `mapstructure:"alerts" validate:"required"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Push      PushConfig      `mapstructure:"push"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// AnalyticsConfig represents the analytics engine configuration.
// Every engine call receives this by value; there is no process-wide
// mutable analytics state.
type AnalyticsConfig struct {
	RiskFreeRate          float64 `mapstructure:"risk_free_rate" validate:"gte=0,lte=1"`
	AnnualizationFactor   float64 `mapstructure:"annualization_factor" validate:"required,gt=0"`
	KellyCap              float64 `mapstructure:"kelly_cap" validate:"required,gt=0,lte=1"`
	MinSegmentBets        int     `mapstructure:"min_segment_bets" validate:"required,gt=0"`
	MinReportBets         int     `mapstructure:"min_report_bets" validate:"required,gt=0"`
	MonteCarloSimulations int     `mapstructure:"monte_carlo_simulations" validate:"required,gt=0"`
	MonteCarloBets        int     `mapstructure:"monte_carlo_bets" validate:"required,gt=0"`
	PeriodDays            int     `mapstructure:"period_days" validate:"required,gt=0"`
	MinPeriodBets         int     `mapstructure:"min_period_bets" validate:"required,gt=0"`
}

// AlertsConfig represents alert thresholds and per-alert enable flags
type AlertsConfig struct {
	DrawdownThreshold     float64            `mapstructure:"drawdown_threshold" validate:"gte=0"`
	LosingStreakThreshold int                `mapstructure:"losing_streak_threshold" validate:"gte=0"`
	ROIThreshold          float64            `mapstructure:"roi_threshold"`
	BankrollThreshold     float64            `mapstructure:"bankroll_threshold" validate:"gte=0,lte=100"`
	OddsThreshold         float64            `mapstructure:"odds_threshold" validate:"gte=0"`
	ValueBetThreshold     float64            `mapstructure:"value_bet_threshold" validate:"gte=0"`
	ProbabilityCacheTTL   int                `mapstructure:"probability_cache_ttl_seconds" validate:"gte=0"`
	Enabled               AlertsEnabledFlags `mapstructure:"enabled"`
}

// AlertsEnabledFlags toggles individual alert checks
type AlertsEnabledFlags struct {
	Drawdown     bool `mapstructure:"drawdown"`
	LosingStreak bool `mapstructure:"losing_streak"`
	ROIWarning   bool `mapstructure:"roi_warning"`
	BankrollLow  bool `mapstructure:"bankroll_low"`
	HighRiskBet  bool `mapstructure:"high_risk_bet"`
	ValueBet     bool `mapstructure:"value_opportunity"`
}

// NotifyConfig represents outbound webhook notification configuration
type NotifyConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	WebhookURL     string  `mapstructure:"webhook_url" validate:"omitempty,url"`
	WebhookToken   string  `mapstructure:"webhook_token"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"omitempty,gte=0"`
	RatePerSecond  float64 `mapstructure:"rate_per_second" validate:"omitempty,gt=0"`
}

// SchedulerConfig represents periodic report and alert sweep scheduling
type SchedulerConfig struct {
	ReportIntervalSeconds int `mapstructure:"report_interval_seconds" validate:"required,gt=0"`
	AlertIntervalSeconds  int `mapstructure:"alert_interval_seconds" validate:"required,gt=0"`
}

// PushConfig represents the websocket report broadcast configuration
type PushConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// CacheTTL returns the advisory probability cache TTL as a duration
func (a *AlertsConfig) CacheTTL() time.Duration {
	if a.ProbabilityCacheTTL <= 0 {
		return time.Minute
	}
	return time.Duration(a.ProbabilityCacheTTL) * time.Second
}
