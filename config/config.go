package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Load loads the configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".gamesync"))
		}

		// Check /etc
		v.AddConfigPath("/etc/gamesync/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Steam defaults
	v.SetDefault("steam.base_url", "https://api.steampowered.com")
	v.SetDefault("steam.owned_games_path", "/IPlayerService/GetOwnedGames/v0001/")
	v.SetDefault("steam.player_summaries_path", "/ISteamUser/GetPlayerSummaries/v0002/")
	v.SetDefault("steam.requests_per_second", 1.0)
	v.SetDefault("steam.cache_ttl", time.Hour)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Steam.BaseURL == "" {
		return fmt.Errorf("steam.base_url is required")
	}

	if cfg.Steam.APIKey == "" || cfg.Steam.APIKey == "your-api-key-here" {
		return fmt.Errorf("steam.api_key must be set to a valid API key")
	}

	if cfg.Steam.RequestsPerSecond <= 0 {
		return fmt.Errorf("steam.requests_per_second must be positive")
	}

	if cfg.Steam.CacheTTL <= 0 {
		return fmt.Errorf("steam.cache_ttl must be positive")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
