package scoring

import "github.com/vitalitypact/vitalitypact/pkg/health"

// Currency returns the in-app currency earned for a day under the default rules.
func Currency(m health.DailyMetrics) int {
	return Defaults().Currency.Currency(m)
}

// Currency returns the base steps award plus at most one sleep bonus and at
// most one exercise bonus. The bonuses are independent of each other.
func (r CurrencyRules) Currency(m health.DailyMetrics) int {
	total := 0
	if r.StepsDivisor > 0 {
		total = m.Steps / r.StepsDivisor
	}
	if b, ok := MatchBand(r.SleepBonus, m.SleepHours); ok {
		total += b.Value
	}
	if b, ok := MatchBand(r.ExerciseBonus, float64(m.ExerciseMinutes)); ok {
		total += b.Value
	}
	return total
}
