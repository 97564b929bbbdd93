package scoring_test

import (
	"encoding/json"
	"testing"

	"github.com/vitalitypact/vitalitypact/pkg/scoring"
)

func TestLevelFromScore(t *testing.T) {
	tests := []struct {
		score int
		want  scoring.HealthLevel
	}{
		{-5, scoring.LevelCritical},
		{0, scoring.LevelCritical},
		{20, scoring.LevelCritical},
		{21, scoring.LevelWeak},
		{40, scoring.LevelWeak},
		{41, scoring.LevelNormal},
		{60, scoring.LevelNormal},
		{61, scoring.LevelGood},
		{80, scoring.LevelGood},
		{81, scoring.LevelExcellent},
		{100, scoring.LevelExcellent},
		{250, scoring.LevelExcellent},
	}
	for _, tt := range tests {
		if got := scoring.LevelFromScore(tt.score); got != tt.want {
			t.Errorf("LevelFromScore(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestLevelBandsPartitionRange(t *testing.T) {
	prev := scoring.LevelCritical
	for s := 0; s <= 100; s++ {
		l := scoring.LevelFromScore(s)
		if !l.Valid() {
			t.Fatalf("score %d classified as invalid level %d", s, int(l))
		}
		if l < prev {
			t.Fatalf("level decreased at score %d", s)
		}
		prev = l
	}
}

func TestHealthLevelText(t *testing.T) {
	for _, l := range scoring.AllLevels() {
		b, err := l.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d): %v", int(l), err)
		}
		var back scoring.HealthLevel
		if err := back.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", b, err)
		}
		if back != l {
			t.Errorf("got %s, want %s", back, l)
		}
	}

	if _, err := scoring.ParseHealthLevel("superb"); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := scoring.HealthLevel(9).MarshalText(); err == nil {
		t.Error("expected error marshaling out-of-range level")
	}
}

func TestHealthLevelJSONMapKey(t *testing.T) {
	in := map[scoring.HealthLevel]string{scoring.LevelGood: "movie night"}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `{"good":"movie night"}` {
		t.Errorf("unexpected json %s", b)
	}
	var out map[scoring.HealthLevel]string
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out[scoring.LevelGood] != "movie night" {
		t.Errorf("round trip lost value: %v", out)
	}
}
