// Package health defines the raw daily health inputs consumed by the VitalityPact
// engine and the per-day history records derived from them.
package health

import (
	"context"
	"time"
)

// RetentionDays is how long the history store keeps daily records.
const RetentionDays = 90

// DailyMetrics is one day of sensor data. Produced by the device bridge and never
// mutated by the engine.
type DailyMetrics struct {
	Steps           int     `json:"steps" yaml:"steps"`
	SleepHours      float64 `json:"sleep_hours" yaml:"sleep_hours"`
	ExerciseMinutes int     `json:"exercise_minutes" yaml:"exercise_minutes"`
	HeartRate       int     `json:"heart_rate" yaml:"heart_rate"` // informational only
}

// DailyHealthRecord is the persisted summary of one calendar day.
// Date is always the start of that day.
type DailyHealthRecord struct {
	ID              string    `json:"id"`
	Date            time.Time `json:"date"`
	Steps           int       `json:"steps"`
	SleepHours      float64   `json:"sleep_hours"`
	ExerciseMinutes int       `json:"exercise_minutes"`
	OverallScore    int       `json:"overall_score"`
}

// NewRecord builds a record for the day containing date.
func NewRecord(id string, date time.Time, m DailyMetrics, overallScore int) DailyHealthRecord {
	return DailyHealthRecord{
		ID:              id,
		Date:            StartOfDay(date),
		Steps:           m.Steps,
		SleepHours:      m.SleepHours,
		ExerciseMinutes: m.ExerciseMinutes,
		OverallScore:    overallScore,
	}
}

// Metrics returns the record's inputs. HeartRate is not retained in history.
func (r DailyHealthRecord) Metrics() DailyMetrics {
	return DailyMetrics{
		Steps:           r.Steps,
		SleepHours:      r.SleepHours,
		ExerciseMinutes: r.ExerciseMinutes,
	}
}

// HistoryStore owns the append-only daily history.
//
// Record replaces any existing record for the same calendar day and prunes
// records older than the retention window. RecentRecords returns the records
// dated on or after now minus days, newest first.
type HistoryStore interface {
	Record(ctx context.Context, rec DailyHealthRecord) error
	RecentRecords(ctx context.Context, days int) ([]DailyHealthRecord, error)
}

// StartOfDay truncates t to midnight in t's own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day in a's location.
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b.In(a.Location())))
}

// Cutoff returns the instant days before now. Records dated before it fall
// outside a trailing window of that many days.
func Cutoff(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, -days)
}
