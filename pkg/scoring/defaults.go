package scoring

import "github.com/vitalitypact/vitalitypact/pkg/health"

// DefaultMetrics returns the standard set of scoring metrics with default rules.
func DefaultMetrics() []Metric {
	r := Defaults()
	return []Metric{
		&StepsMetric{
			Divisor: r.StepsDivisor,
			Cap:     r.StepsCap,
		},
		&SleepMetric{
			Bands: r.SleepBands,
		},
		&ExerciseMetric{
			FullMinutes: r.ExerciseFullMinutes,
			Cap:         r.ExerciseCap,
		},
	}
}

var defaultEngine = NewEngine(DefaultMetrics()...)

// Score scores metrics with the default engine.
func Score(m health.DailyMetrics) ScoreBreakdown {
	return defaultEngine.Score(m)
}
