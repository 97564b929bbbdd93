package scoring

import (
	"fmt"

	"github.com/vitalitypact/vitalitypact/pkg/health"
)

// ExerciseMetric scores exercise minutes linearly, saturating at FullMinutes.
type ExerciseMetric struct {
	FullMinutes int // minutes needed for a score of 100
	Cap         int
}

func (m *ExerciseMetric) Key() string  { return KeyExercise }
func (m *ExerciseMetric) Name() string { return "Exercise" }

func (m *ExerciseMetric) Evaluate(d health.DailyMetrics) MetricResult {
	result := MetricResult{
		Key:  m.Key(),
		Name: m.Name(),
	}
	if m.FullMinutes <= 0 {
		result.Severity = SeverityFromScore(0)
		return result
	}

	raw := d.ExerciseMinutes * 100 / m.FullMinutes
	result.Score = minInt(m.Cap, raw)
	result.Severity = SeverityFromScore(result.Score)

	typ := EvidenceLinear
	if raw >= m.Cap {
		typ = EvidenceCapped
	}
	result.Evidence = append(result.Evidence, EvidenceItem{
		Type:    typ,
		Summary: fmt.Sprintf("%d of %d target minutes", d.ExerciseMinutes, m.FullMinutes),
		Value:   float64(d.ExerciseMinutes),
	})
	return result
}
