package scoring

import "github.com/vitalitypact/vitalitypact/pkg/health"

// CharacterState is the partner's displayed mood for the day.
type CharacterState string

const (
	StateTired   CharacterState = "tired"
	StateHealthy CharacterState = "healthy"
	StateExcited CharacterState = "excited"
)

// StateFor derives the partner's mood. Short sleep always reads as tired.
func StateFor(m health.DailyMetrics, overall int) CharacterState {
	switch {
	case m.SleepHours < 6:
		return StateTired
	case overall >= 80:
		return StateExcited
	case overall >= 40:
		return StateHealthy
	default:
		return StateTired
	}
}
