// Package config defines service configuration structures and loading.
//
// Conventions:
// - Provide New(...) building a Config with defaults.
// - Load(ctx) layers defaults, optional YAML file, and env vars.
// - External errors are wrapped via this package's sentinel errors.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DailyScoresPath locates the scraped daily scores CSV.
	DailyScoresPath string `koanf:"daily_scores_path"`

	// EventRankingsPath locates the scraped event rankings JSON.
	EventRankingsPath string `koanf:"event_rankings_path"`

	// RefreshSpec is a cron expression for periodic recomputes,
	// e.g. "@every 30m". Empty disables scheduled refresh.
	RefreshSpec string `koanf:"refresh_spec"`

	// Concurrency bounds how many months are computed in parallel.
	Concurrency int `koanf:"concurrency"`

	// MedalSetBonuses is the bonus ladder paid in medal-set completion order.
	MedalSetBonuses []int `koanf:"medal_set_bonuses"`

	// StreakBonus is the flat bonus for the month's longest top-10 streak.
	StreakBonus int `koanf:"streak_bonus"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		DailyScoresPath:   "daily_scores.csv",
		EventRankingsPath: "event_rankings.json",
		RefreshSpec:       "@every 30m",
		Concurrency:       runtime.NumCPU(),
		MedalSetBonuses:   []int{50, 40, 30, 20, 10},
		StreakBonus:       25,
	}
}
