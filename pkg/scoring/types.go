// Package scoring implements the VitalityPact health scoring engine.
// It maps one day of raw metrics to explainable per-dimension scores, an overall
// score, a health level, and the in-app currency earned for that day.
package scoring

// ScoreBreakdown is the complete output of scoring one day of metrics.
// Immutable once computed; recomputed on demand from the source metrics.
type ScoreBreakdown struct {
	StepsScore    int            `json:"steps_score"`
	SleepScore    int            `json:"sleep_score"`
	ExerciseScore int            `json:"exercise_score"`
	OverallScore  int            `json:"overall_score"`
	Level         HealthLevel    `json:"level"`
	Breakdown     []MetricResult `json:"breakdown"`
}

// MetricResult is the output of a single scoring metric.
type MetricResult struct {
	Key      string         `json:"key"`   // machine key: "steps"
	Name     string         `json:"name"`  // human name: "Daily steps"
	Score    int            `json:"score"` // 0-100 for in-range inputs
	Severity Severity       `json:"severity"`
	Evidence []EvidenceItem `json:"evidence"`
}

// Severity indicates how concerning a dimension's score is.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
	SeverityInfo   Severity = "INFO"
)

// SeverityFromScore maps a dimension score to a severity.
func SeverityFromScore(score int) Severity {
	switch {
	case score < 40:
		return SeverityHigh
	case score < 60:
		return SeverityMedium
	case score < 80:
		return SeverityLow
	default:
		return SeverityInfo
	}
}

// EvidenceItem is a single piece of concrete evidence backing a score.
type EvidenceItem struct {
	Type    EvidenceType `json:"type"`
	Summary string       `json:"summary"`
	Value   float64      `json:"value,omitempty"`
}

// EvidenceType classifies how a score was derived.
type EvidenceType string

const (
	EvidenceLinear EvidenceType = "LINEAR" // proportional to the raw value
	EvidenceCapped EvidenceType = "CAPPED" // saturated at the cap
	EvidenceBand   EvidenceType = "BAND"   // matched a threshold band
	EvidenceNoBand EvidenceType = "NO_BAND"
)
