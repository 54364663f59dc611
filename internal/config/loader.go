// Package config provides configuration management for the Punter Edge application.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	// Read the configuration file
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	// Create a new viper instance
	v := viper.New()
	v.SetConfigType("yaml")

	// Read the expanded configuration
	if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set environment variable prefix
	v.SetEnvPrefix("PUNTER_EDGE")

	// Enable automatic binding of environment variables
	v.AutomaticEnv()

	// Replace dots with underscores in environment variable names
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Unmarshal configuration into Config struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func LoadWithDefaults(configPath string) (*Config, error) {
	v := viper.New()

	// Set configuration file path with default
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v.SetConfigType("yaml")

	// Set environment variable prefix
	v.SetEnvPrefix("PUNTER_EDGE")

	// Enable automatic binding of environment variables
	v.AutomaticEnv()

	// Replace dots with underscores in environment variable names
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set some reasonable defaults
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9100)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("analytics.risk_free_rate", 0.0)
	v.SetDefault("analytics.annualization_factor", 252.0)
	v.SetDefault("analytics.kelly_cap", 0.25)
	v.SetDefault("analytics.min_segment_bets", 10)
	v.SetDefault("analytics.min_report_bets", 5)
	v.SetDefault("analytics.monte_carlo_simulations", 1000)
	v.SetDefault("analytics.monte_carlo_bets", 100)
	v.SetDefault("analytics.period_days", 30)
	v.SetDefault("analytics.min_period_bets", 5)
	v.SetDefault("alerts.drawdown_threshold", 10.0)
	v.SetDefault("alerts.losing_streak_threshold", 3)
	v.SetDefault("alerts.roi_threshold", -5.0)
	v.SetDefault("alerts.bankroll_threshold", 20.0)
	v.SetDefault("alerts.odds_threshold", 5.0)
	v.SetDefault("alerts.value_bet_threshold", 0.1)
	v.SetDefault("alerts.probability_cache_ttl_seconds", 60)
	v.SetDefault("alerts.enabled.drawdown", true)
	v.SetDefault("alerts.enabled.losing_streak", true)
	v.SetDefault("alerts.enabled.roi_warning", true)
	v.SetDefault("alerts.enabled.bankroll_low", true)
	v.SetDefault("alerts.enabled.high_risk_bet", true)
	v.SetDefault("alerts.enabled.value_opportunity", true)
	v.SetDefault("scheduler.report_interval_seconds", 300)
	v.SetDefault("scheduler.alert_interval_seconds", 300)

	// Read and expand the configuration file if it exists
	if data, err := os.ReadFile(configPath); err == nil {
		// Expand environment variables in the configuration (${VAR} syntax)
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// If file doesn't exist, continue with defaults and environment variables

	// Unmarshal configuration into Config struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}
