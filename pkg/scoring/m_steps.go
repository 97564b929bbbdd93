package scoring

import (
	"fmt"

	"github.com/vitalitypact/vitalitypact/pkg/health"
)

// StepsMetric scores step count linearly up to a cap.
type StepsMetric struct {
	Divisor int // steps per score point
	Cap     int // maximum score
}

func (m *StepsMetric) Key() string  { return KeySteps }
func (m *StepsMetric) Name() string { return "Daily steps" }

func (m *StepsMetric) Evaluate(d health.DailyMetrics) MetricResult {
	result := MetricResult{
		Key:  m.Key(),
		Name: m.Name(),
	}
	if m.Divisor <= 0 {
		result.Severity = SeverityFromScore(0)
		return result
	}

	raw := d.Steps / m.Divisor
	result.Score = minInt(m.Cap, raw)
	result.Severity = SeverityFromScore(result.Score)

	if raw >= m.Cap {
		result.Evidence = append(result.Evidence, EvidenceItem{
			Type:    EvidenceCapped,
			Summary: fmt.Sprintf("%d steps reaches the %d-point cap", d.Steps, m.Cap),
			Value:   float64(d.Steps),
		})
	} else {
		result.Evidence = append(result.Evidence, EvidenceItem{
			Type:    EvidenceLinear,
			Summary: fmt.Sprintf("%d steps at %d steps per point", d.Steps, m.Divisor),
			Value:   float64(d.Steps),
		})
	}
	return result
}
