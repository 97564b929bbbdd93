package scoring

import "fmt"

// HealthLevel is one of five ordered tiers derived from an overall score.
type HealthLevel int

const (
	LevelCritical HealthLevel = iota
	LevelWeak
	LevelNormal
	LevelGood
	LevelExcellent
)

var levelNames = [...]string{"critical", "weak", "normal", "good", "excellent"}

// AllLevels returns every level, lowest first.
func AllLevels() []HealthLevel {
	return []HealthLevel{LevelCritical, LevelWeak, LevelNormal, LevelGood, LevelExcellent}
}

// LevelFromScore classifies an overall score. Bands are [0,20], [21,40],
// [41,60], [61,80] and 81 upward. Negative scores classify as critical.
func LevelFromScore(score int) HealthLevel {
	switch {
	case score <= 20:
		return LevelCritical
	case score <= 40:
		return LevelWeak
	case score <= 60:
		return LevelNormal
	case score <= 80:
		return LevelGood
	default:
		return LevelExcellent
	}
}

func (l HealthLevel) String() string {
	if l < LevelCritical || l > LevelExcellent {
		return fmt.Sprintf("HealthLevel(%d)", int(l))
	}
	return levelNames[l]
}

// Valid reports whether l is one of the five defined tiers.
func (l HealthLevel) Valid() bool {
	return l >= LevelCritical && l <= LevelExcellent
}

// ParseHealthLevel parses a level name as produced by String.
func ParseHealthLevel(s string) (HealthLevel, error) {
	for i, name := range levelNames {
		if name == s {
			return HealthLevel(i), nil
		}
	}
	return 0, fmt.Errorf("unknown health level %q", s)
}

func (l HealthLevel) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid health level %d", int(l))
	}
	return []byte(l.String()), nil
}

func (l *HealthLevel) UnmarshalText(b []byte) error {
	parsed, err := ParseHealthLevel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
