package config

import (
	"log/slog"
	"os"
	"strconv"
)

// HistoryConfig represents play history configuration
type HistoryConfig struct {
	Enabled      bool   `json:"enabled"`       // Whether play history is recorded
	DatabasePath string `json:"database_path"` // Custom database path (empty = XDG data path)
}

// GetDefaultHistoryConfig returns the default play history configuration
func GetDefaultHistoryConfig() *HistoryConfig {
	return &HistoryConfig{
		Enabled:      true,
		DatabasePath: "", // Empty = XDG data path
	}
}

// ApplyHistoryEnvironmentOverrides applies environment variable overrides to history config
func ApplyHistoryEnvironmentOverrides(config *HistoryConfig) *HistoryConfig {
	slog.Debug("applying history environment variable overrides")

	result := *config

	// PCMBOX_HISTORY
	if historyStr := os.Getenv("PCMBOX_HISTORY"); historyStr != "" {
		if enabled, err := strconv.ParseBool(historyStr); err == nil {
			result.Enabled = enabled
			slog.Debug("applied history override from environment", "value", enabled)
		} else {
			slog.Warn("invalid PCMBOX_HISTORY environment variable", "value", historyStr, "error", err)
		}
	}

	// PCMBOX_HISTORY_DB
	if dbPath := os.Getenv("PCMBOX_HISTORY_DB"); dbPath != "" {
		result.DatabasePath = dbPath
		slog.Debug("applied history database path override from environment", "value", dbPath)
	}

	slog.Debug("history environment overrides applied")
	return &result
}
