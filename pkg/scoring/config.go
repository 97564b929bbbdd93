package scoring

// Band is a threshold rule: values >= Min earn Value.
// Band lists are ordered high to low and the first match wins.
type Band struct {
	Min   float64 `json:"min" yaml:"min"`
	Value int     `json:"value" yaml:"value"`
}

// MatchBand returns the first band whose Min is <= v.
func MatchBand(bands []Band, v float64) (Band, bool) {
	for _, b := range bands {
		if v >= b.Min {
			return b, true
		}
	}
	return Band{}, false
}

// Rules holds the scoring and currency rules for all dimensions.
type Rules struct {
	// Steps: min(StepsCap, steps / StepsDivisor)
	StepsDivisor int
	StepsCap     int

	// Sleep: stepwise bands, no interpolation
	SleepBands []Band

	// Exercise: min(ExerciseCap, minutes * 100 / ExerciseFullMinutes)
	ExerciseFullMinutes int
	ExerciseCap         int

	Currency CurrencyRules
}

// CurrencyRules derives daily currency: steps / StepsDivisor plus at most one
// sleep bonus and at most one exercise bonus.
type CurrencyRules struct {
	StepsDivisor  int
	SleepBonus    []Band
	ExerciseBonus []Band
}

// Defaults returns the default scoring rules.
func Defaults() Rules {
	return Rules{
		StepsDivisor: 100, // 10,000 steps saturates
		StepsCap:     100,

		SleepBands: []Band{
			{Min: 8, Value: 100},
			{Min: 7, Value: 80},
			{Min: 6, Value: 60},
			{Min: 5, Value: 40},
			{Min: 4, Value: 20},
		},

		ExerciseFullMinutes: 60,
		ExerciseCap:         100,

		Currency: CurrencyRules{
			StepsDivisor: 10,
			SleepBonus: []Band{
				{Min: 8, Value: 50},
				{Min: 7, Value: 30},
				{Min: 6, Value: 10},
			},
			ExerciseBonus: []Band{
				{Min: 60, Value: 50},
				{Min: 30, Value: 30},
				{Min: 15, Value: 10},
			},
		},
	}
}
