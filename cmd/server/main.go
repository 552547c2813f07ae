// Package main implements the lexis API server, which schedules vocabulary
// reviews for learners using a fixed six-stage spaced repetition table.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/lexis/internal/platform/postgres"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "lexis: %v\n", err)
		os.Exit(1)
	}
}

// run parses flags and either executes a migration command or serves HTTP
// until SIGINT or SIGTERM.
func run(args []string) error {
	fs := flag.NewFlagSet("lexis", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	migrateCmd := fs.String("migrate", "",
		fmt.Sprintf("run a migration command and exit (%v)", postgres.MigrationCommands))
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAppConfig(*configPath)
	if err != nil {
		return err
	}

	log, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}

	if *migrateCmd != "" {
		defer func() {
			_ = db.Close()
		}()
		log.Info("executing migrations", slog.String("command", *migrateCmd))
		return postgres.Migrate(ctx, db, *migrateCmd, log)
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		_ = db.Close()
		return err
	}
	return app.Run(ctx)
}
