// Package trend summarizes a window of daily health records: averages,
// first-half versus second-half trends, and ongoing low streaks.
package trend

import (
	"sort"
	"time"

	"github.com/vitalitypact/vitalitypact/pkg/health"
)

// Trend classifies the direction of a metric over a window.
type Trend string

const (
	Improving    Trend = "improving"
	Stable       Trend = "stable"
	Declining    Trend = "declining"
	Insufficient Trend = "insufficient"
)

// Description is the short phrase used in summaries.
func (t Trend) Description() string {
	switch t {
	case Improving:
		return "improving"
	case Stable:
		return "holding steady"
	case Declining:
		return "declining"
	default:
		return "not enough data"
	}
}

const (
	// MinPoints is the fewest values that produce a trend.
	MinPoints = 3
	// ChangeThreshold is the relative change between half means that counts as movement.
	ChangeThreshold = 0.10

	LowSleepHours = 6.0
	LowSteps      = 5000
)

// Analysis is the result of analyzing a window of records.
type Analysis struct {
	RecentDays      int     `json:"recent_days"`
	AverageSteps    int     `json:"average_steps"`
	AverageSleep    float64 `json:"average_sleep"`
	AverageExercise int     `json:"average_exercise"`
	AverageScore    int     `json:"average_score"`

	SleepTrend    Trend `json:"sleep_trend"`
	StepsTrend    Trend `json:"steps_trend"`
	ExerciseTrend Trend `json:"exercise_trend"`

	ConsecutiveLowSleepDays int `json:"consecutive_low_sleep_days"`
	ConsecutiveLowStepsDays int `json:"consecutive_low_steps_days"`
}

// Empty returns the analysis of a window with no records.
func Empty() Analysis {
	return Analysis{
		SleepTrend:    Insufficient,
		StepsTrend:    Insufficient,
		ExerciseTrend: Insufficient,
	}
}

// Analyze filters records to those dated on or after now minus windowDays and
// analyzes them. Records may be supplied in any order.
func Analyze(records []health.DailyHealthRecord, windowDays int, now time.Time) Analysis {
	cutoff := health.Cutoff(now, windowDays)

	var recent []health.DailyHealthRecord
	for _, r := range records {
		if !r.Date.Before(cutoff) {
			recent = append(recent, r)
		}
	}
	if len(recent) == 0 {
		return Empty()
	}

	// Oldest first
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.Before(recent[j].Date)
	})

	n := len(recent)
	var steps, exercise, score int
	var sleep float64
	stepVals := make([]float64, n)
	sleepVals := make([]float64, n)
	exVals := make([]float64, n)
	for i, r := range recent {
		steps += r.Steps
		sleep += r.SleepHours
		exercise += r.ExerciseMinutes
		score += r.OverallScore

		stepVals[i] = float64(r.Steps)
		sleepVals[i] = r.SleepHours
		exVals[i] = float64(r.ExerciseMinutes)
	}

	return Analysis{
		RecentDays:      n,
		AverageSteps:    steps / n,
		AverageSleep:    sleep / float64(n),
		AverageExercise: exercise / n,
		AverageScore:    score / n,

		SleepTrend:    Classify(sleepVals),
		StepsTrend:    Classify(stepVals),
		ExerciseTrend: Classify(exVals),

		ConsecutiveLowSleepDays: lowStreak(recent, func(r health.DailyHealthRecord) bool { return r.SleepHours < LowSleepHours }),
		ConsecutiveLowStepsDays: lowStreak(recent, func(r health.DailyHealthRecord) bool { return r.Steps < LowSteps }),
	}
}

// Classify compares the mean of the first half of values (oldest to newest)
// against the mean of the second half. With an odd count the middle value
// belongs to neither half.
//
// A first-half mean of zero has no relative change: the trend is stable when
// the second half is also zero and improving otherwise.
func Classify(values []float64) Trend {
	n := len(values)
	if n < MinPoints {
		return Insufficient
	}

	f, s := Split(values)
	first, second := mean(f), mean(s)

	if first == 0 {
		switch {
		case second > 0:
			return Improving
		case second < 0:
			return Declining
		default:
			return Stable
		}
	}

	change := (second - first) / first
	switch {
	case change > ChangeThreshold:
		return Improving
	case change < -ChangeThreshold:
		return Declining
	default:
		return Stable
	}
}

// Split returns the two halves Classify compares.
func Split(values []float64) (first, second []float64) {
	half := len(values) / 2
	return values[:half], values[len(values)-half:]
}

// lowStreak counts the newest records that satisfy low, stopping at the first that does not.
// records must be sorted oldest first.
func lowStreak(records []health.DailyHealthRecord, low func(health.DailyHealthRecord) bool) int {
	count := 0
	for i := len(records) - 1; i >= 0; i-- {
		if !low(records[i]) {
			break
		}
		count++
	}
	return count
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}
