package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/phrazzld/lexis/internal/catalog"
	"github.com/phrazzld/lexis/internal/platform/postgres"
	"github.com/spf13/cobra"
)

func newImportWordsCommand(opts *rootOptions) *cobra.Command {
	var (
		approve bool
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "import-words FILE",
		Short: "Import a YAML word catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}
			words, err := c.Words(approve, time.Now().UTC())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				_, _ = fmt.Fprintf(out, "%d words valid\n", len(words))
				return nil
			}

			db, err := opts.openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			ws := postgres.NewPostgresWordStore(db, slog.Default())
			res, err := catalog.Import(cmd.Context(), ws, words, slog.Default())
			if err != nil {
				return err
			}

			_, _ = color.New(color.FgGreen).Fprintf(out, "%d created", res.Created)
			_, _ = fmt.Fprintf(out, ", %d already present\n", res.Skipped)
			return nil
		},
	}

	cmd.Flags().BoolVar(&approve, "approve", false, "mark every imported word approved")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the file without touching the database")
	return cmd
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate COMMAND",
		Short:     "Run database migrations",
		Long:      fmt.Sprintf("Run a goose migration command: %v", postgres.MigrationCommands),
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: postgres.MigrationCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			return postgres.Migrate(cmd.Context(), db, args[0], slog.Default())
		},
	}
}
