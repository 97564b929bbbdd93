package scoring

import (
	"github.com/vitalitypact/vitalitypact/pkg/health"
)

// Metric is the interface that all scoring metrics implement.
type Metric interface {
	// Key returns the machine-readable metric identifier.
	Key() string
	// Name returns the human-readable metric name.
	Name() string
	// Evaluate scores one dimension of a day's metrics.
	Evaluate(m health.DailyMetrics) MetricResult
}

// Metric keys for the three built-in dimensions.
const (
	KeySteps    = "steps"
	KeySleep    = "sleep"
	KeyExercise = "exercise"
)

// Engine runs all configured metrics against a day's metrics and produces a ScoreBreakdown.
type Engine struct {
	metrics []Metric
}

// NewEngine creates a scoring engine with the given metrics.
func NewEngine(metrics ...Metric) *Engine {
	return &Engine{metrics: metrics}
}

// Score evaluates all metrics. The overall score is the floored mean of the
// dimension scores. Scoring is pure: the same metrics always yield the same breakdown.
func (e *Engine) Score(m health.DailyMetrics) ScoreBreakdown {
	var out ScoreBreakdown
	sum := 0
	for _, metric := range e.metrics {
		mr := metric.Evaluate(m)
		out.Breakdown = append(out.Breakdown, mr)
		sum += mr.Score

		switch mr.Key {
		case KeySteps:
			out.StepsScore = mr.Score
		case KeySleep:
			out.SleepScore = mr.Score
		case KeyExercise:
			out.ExerciseScore = mr.Score
		}
	}

	if n := len(e.metrics); n > 0 {
		out.OverallScore = floorDiv(sum, n)
	}
	out.Level = LevelFromScore(out.OverallScore)
	return out
}

// Weakest returns the lowest-scoring dimension, or false for an empty breakdown.
func (b ScoreBreakdown) Weakest() (MetricResult, bool) {
	if len(b.Breakdown) == 0 {
		return MetricResult{}, false
	}
	weakest := b.Breakdown[0]
	for _, mr := range b.Breakdown[1:] {
		if mr.Score < weakest.Score {
			weakest = mr
		}
	}
	return weakest, true
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
