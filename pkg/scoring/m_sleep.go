package scoring

import (
	"fmt"

	"github.com/vitalitypact/vitalitypact/pkg/health"
)

// SleepMetric scores sleep duration by threshold band. Hours below every band score 0.
type SleepMetric struct {
	Bands []Band
}

func (m *SleepMetric) Key() string  { return KeySleep }
func (m *SleepMetric) Name() string { return "Sleep duration" }

func (m *SleepMetric) Evaluate(d health.DailyMetrics) MetricResult {
	result := MetricResult{
		Key:  m.Key(),
		Name: m.Name(),
	}

	b, ok := MatchBand(m.Bands, d.SleepHours)
	if !ok {
		result.Severity = SeverityFromScore(0)
		result.Evidence = append(result.Evidence, EvidenceItem{
			Type:    EvidenceNoBand,
			Summary: fmt.Sprintf("%.1fh of sleep is below every band", d.SleepHours),
			Value:   d.SleepHours,
		})
		return result
	}

	result.Score = b.Value
	result.Severity = SeverityFromScore(result.Score)
	result.Evidence = append(result.Evidence, EvidenceItem{
		Type:    EvidenceBand,
		Summary: fmt.Sprintf("%.1fh of sleep meets the %gh band", d.SleepHours, b.Min),
		Value:   d.SleepHours,
	})
	return result
}
