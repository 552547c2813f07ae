package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/lexis/internal/config"
)

// loadAppConfig loads configuration from path, or from ./config.yaml and
// the environment when path is empty.
func loadAppConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Int("max_due_words", cfg.Review.MaxDueWords))
	return cfg, nil
}
