package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/phrazzld/lexis/internal/domain"
	"github.com/phrazzld/lexis/internal/domain/srs"
	"github.com/spf13/cobra"
)

func newIntervalsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "intervals",
		Short: "Print the review interval table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			bold := color.New(color.Bold)
			_, _ = bold.Fprintln(w, "STAGE\tINTERVAL\tDAYS")
			for _, st := range srs.Intervals() {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%d\n", st.Number, st.Label, int(st.Interval/srs.Day))
			}
			return w.Flush()
		},
	}
}

func newScheduleCommand() *cobra.Command {
	var (
		outcome string
		count   int
		nowFlag string
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show how one attempt would reschedule a word",
		Example: `  lexisctl schedule --outcome correct --count 5
  lexisctl schedule --outcome incorrect --count 3 --now 2026-01-01T09:00:00Z`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := domain.ParseOutcome(outcome)
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			if nowFlag != "" {
				now, err = time.Parse(time.RFC3339, nowFlag)
				if err != nil {
					return fmt.Errorf("invalid --now: %w", err)
				}
			}

			res, err := srs.ComputeNextReview(o, count, now)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "outcome:      %s\n", o)
			_, _ = fmt.Fprintf(out, "count:        %d -> %d\n", count, res.NewRepetitionCount)
			_, _ = fmt.Fprintf(out, "next review:  %s (in %s)\n",
				res.NextReviewAt.Format(time.RFC3339), res.NextReviewAt.Sub(now))

			if o == domain.OutcomeCorrect {
				label, err := srs.IntervalLabel(res.NewRepetitionCount)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(out, "interval:     %s\n", label)
			}
			if res.BecameMastered {
				_, _ = color.New(color.FgGreen, color.Bold).Fprintln(out, "mastered")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outcome, "outcome", "", "correct, incorrect or skipped")
	cmd.Flags().IntVar(&count, "count", 0, "current repetition count (0-6)")
	cmd.Flags().StringVar(&nowFlag, "now", "", "attempt time in RFC3339 (default: current time)")
	_ = cmd.MarkFlagRequired("outcome")
	return cmd
}
