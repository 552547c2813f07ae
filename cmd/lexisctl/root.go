package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/lexis/internal/config"
	"github.com/phrazzld/lexis/internal/platform/logger"
	"github.com/phrazzld/lexis/internal/platform/postgres"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
	debug      bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "lexisctl",
		Short:         "Operate the lexis vocabulary review service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if opts.debug {
				level = "debug"
			}
			_, err := logger.Setup(logger.LoggerConfig{Level: level, Output: cmd.ErrOrStderr()})
			return err
		},
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file path")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newIntervalsCommand(),
		newScheduleCommand(),
		newImportWordsCommand(opts),
		newMigrateCommand(opts),
	)
	return root
}

// openDatabase loads configuration and connects to the configured database.
func (o *rootOptions) openDatabase(ctx context.Context) (*sql.DB, error) {
	cfg, err := config.LoadFile(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach %s: %w", postgres.MaskDatabaseURL(cfg.Database.URL), err)
	}

	slog.Debug("connected to database", slog.String("url", postgres.MaskDatabaseURL(cfg.Database.URL)))
	return db, nil
}
