package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vitalitypact/vitalitypact/internal/ingestion"
	"github.com/vitalitypact/vitalitypact/pkg/health"
	"github.com/vitalitypact/vitalitypact/pkg/surface"
)

// metricFlags collects a day of metrics from flags or a JSON file.
type metricFlags struct {
	metrics health.DailyMetrics
	file    string
	save    string
}

func (m *metricFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&m.metrics.Steps, "steps", 0, "Steps walked today")
	f.Float64Var(&m.metrics.SleepHours, "sleep", 0, "Hours slept last night")
	f.IntVar(&m.metrics.ExerciseMinutes, "exercise", 0, "Minutes of exercise today")
	f.IntVar(&m.metrics.HeartRate, "heart-rate", 0, "Resting heart rate (informational)")
	f.StringVar(&m.file, "file", "", "Read metrics from a JSON file instead of flags")
	f.StringVar(&m.save, "save", "", "Also write the metrics used to this JSON file")
}

// resolve returns the metrics to use. A file replaces every flag value.
func (m *metricFlags) resolve() (health.DailyMetrics, error) {
	metrics := m.metrics
	if m.file != "" {
		loaded, err := health.LoadMetrics(m.file)
		if err != nil {
			return health.DailyMetrics{}, err
		}
		metrics = loaded
	}
	if m.save != "" {
		if err := health.SaveMetrics(m.save, metrics); err != nil {
			return health.DailyMetrics{}, err
		}
	}
	return metrics, nil
}

func newScoreCmd(g *globalFlags) *cobra.Command {
	var mf metricFlags

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a day of metrics without recording it",
		Long: `Score evaluates steps, sleep and exercise into dimension scores, an overall
health level, the currency the day would earn and the partner's mood. Nothing
is written to history.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, ok := surface.ForFormat(g.format)
			if !ok {
				return fmt.Errorf("unknown format %q (want text, json or markdown)", g.format)
			}
			metrics, err := mf.resolve()
			if err != nil {
				return err
			}
			return runScore(cmd.OutOrStdout(), renderer, metrics)
		},
	}
	mf.register(cmd)
	return cmd
}

func runScore(w io.Writer, renderer surface.Renderer, m health.DailyMetrics) error {
	report, err := ingestion.NewService(nil).Score(m)
	if err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	return renderer.Render(w, report)
}

func newRecordCmd(g *globalFlags) *cobra.Command {
	var (
		mf      metricFlags
		partner string
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record today's metrics and grow your partner",
		Long: `Record scores today's metrics, stores them in history, credits the partner
with experience and attributes, and prints the partner's line for the day.
Recording again on the same day replaces the stored record; the partner is
credited only once per day.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			metrics, err := mf.resolve()
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.svc.ProcessDay(cmd.Context(), ingestion.DayRequest{
				UserID:    a.user,
				PartnerID: firstNonEmpty(partner, a.cfg.Partner),
				Metrics:   metrics,
			})
			if err != nil {
				return fmt.Errorf("recording day: %w", err)
			}
			return a.renderer.Render(cmd.OutOrStdout(), report)
		},
	}
	mf.register(cmd)
	cmd.Flags().StringVar(&partner, "partner", "", "Partner to credit (default: the one chosen in settings)")
	return cmd
}
