package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Steam   SteamConfig   `mapstructure:"steam"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SteamConfig holds Steam Web API connection details
type SteamConfig struct {
	BaseURL             string        `mapstructure:"base_url"`
	APIKey              string        `mapstructure:"api_key"`
	OwnedGamesPath      string        `mapstructure:"owned_games_path"`
	PlayerSummariesPath string        `mapstructure:"player_summaries_path"`
	RequestsPerSecond   float64       `mapstructure:"requests_per_second"`
	CacheTTL            time.Duration `mapstructure:"cache_ttl"`
}

// FilterConfig contains filter presets and the default expression
type FilterConfig struct {
	DefaultExpression string            `mapstructure:"default_expression"`
	Presets           map[string]string `mapstructure:"presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
