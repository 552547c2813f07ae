package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/lexis/internal/config"
	"github.com/phrazzld/lexis/internal/platform/logger"
)

// setupAppLogger configures the process-wide logger from cfg.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	l, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	return l, nil
}
