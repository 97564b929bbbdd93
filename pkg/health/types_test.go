package health

import (
	"path/filepath"
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	in := time.Date(2026, 3, 14, 23, 59, 10, 500, loc)
	got := StartOfDay(in)
	want := time.Date(2026, 3, 14, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("StartOfDay = %v, want %v", got, want)
	}
	if got.Location() != loc {
		t.Errorf("StartOfDay changed location to %v", got.Location())
	}
}

func TestSameDay(t *testing.T) {
	base := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		b    time.Time
		want bool
	}{
		{"same morning", base.Add(2 * time.Hour), true},
		{"last second", time.Date(2026, 3, 14, 23, 59, 59, 0, time.UTC), true},
		{"next day", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"previous day", base.Add(-9 * time.Hour), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SameDay(base, tc.b); got != tc.want {
				t.Errorf("SameDay(%v, %v) = %v, want %v", base, tc.b, got, tc.want)
			}
		})
	}
}

func TestNewRecordKeysByStartOfDay(t *testing.T) {
	at := time.Date(2026, 5, 2, 17, 30, 0, 0, time.UTC)
	rec := NewRecord("r1", at, DailyMetrics{Steps: 8000, SleepHours: 7.5, ExerciseMinutes: 20, HeartRate: 64}, 66)

	if !rec.Date.Equal(time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v, want start of day", rec.Date)
	}
	if rec.Steps != 8000 || rec.SleepHours != 7.5 || rec.ExerciseMinutes != 20 || rec.OverallScore != 66 {
		t.Errorf("unexpected record %+v", rec)
	}
	if m := rec.Metrics(); m.HeartRate != 0 || m.Steps != 8000 {
		t.Errorf("Metrics() = %+v", m)
	}
}

func TestMetricsRoundTripFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "today.json")
	in := DailyMetrics{Steps: 12000, SleepHours: 6.25, ExerciseMinutes: 45, HeartRate: 70}

	if err := SaveMetrics(path, in); err != nil {
		t.Fatalf("SaveMetrics: %v", err)
	}
	out, err := LoadMetrics(path)
	if err != nil {
		t.Fatalf("LoadMetrics: %v", err)
	}
	if out != in {
		t.Errorf("LoadMetrics = %+v, want %+v", out, in)
	}
}

func TestLoadMetricsMissingFile(t *testing.T) {
	if _, err := LoadMetrics(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
