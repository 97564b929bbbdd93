package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vitalitypact/vitalitypact/pkg/health"
	"github.com/vitalitypact/vitalitypact/pkg/scoring"
	"github.com/vitalitypact/vitalitypact/pkg/trend"
)

func newHistoryCmd(g *globalFlags) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded days",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer a.Close()

			if days <= 0 {
				days = a.cfg.History.RetentionDays
			}
			records, err := a.svc.History(cmd.Context(), a.user, days)
			if err != nil {
				return err
			}
			if g.format == "json" {
				return printJSON(cmd.OutOrStdout(), records)
			}
			printHistory(cmd.OutOrStdout(), records)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "Days to include (default: full retention window)")

	cmd.AddCommand(newTrendCmd(g), newHistoryClearCmd(g))
	return cmd
}

func newTrendCmd(g *globalFlags) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Analyze the trend over recent days",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer a.Close()

			analysis, err := a.svc.Analysis(cmd.Context(), a.user, days)
			if err != nil {
				return err
			}
			if g.format == "json" {
				return printJSON(cmd.OutOrStdout(), analysis)
			}
			printTrend(cmd.OutOrStdout(), analysis)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "Analysis window in days (default: config window)")
	return cmd
}

func newHistoryClearCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded days",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.svc.ClearHistory(cmd.Context(), a.user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared history for %s.\n", a.user)
			return nil
		},
	}
}

func printHistory(w io.Writer, records []health.DailyHealthRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No recorded days.")
		return
	}
	fmt.Fprintf(w, "%-10s  %7s  %5s  %8s  %5s  %s\n", "DATE", "STEPS", "SLEEP", "EXERCISE", "SCORE", "LEVEL")
	for _, r := range records {
		fmt.Fprintf(w, "%-10s  %7d  %5.1f  %8d  %5d  %s\n",
			r.Date.Format("2006-01-02"), r.Steps, r.SleepHours, r.ExerciseMinutes,
			r.OverallScore, scoring.LevelFromScore(r.OverallScore))
	}
}

func printTrend(w io.Writer, a trend.Analysis) {
	if a.RecentDays == 0 {
		fmt.Fprintln(w, "No recorded days in the window.")
		return
	}
	fmt.Fprintln(w, a.Summary())
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
