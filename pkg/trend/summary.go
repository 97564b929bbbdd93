package trend

import (
	"fmt"
	"strings"
)

// Summary renders the analysis as short plain text, suitable for a dialogue prompt.
func (a Analysis) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Health over the last %d days:\n", a.RecentDays)

	fmt.Fprintf(&b, "Sleep: %.1f hours per day on average", a.AverageSleep)
	if a.ConsecutiveLowSleepDays > 0 {
		fmt.Fprintf(&b, ", %d days in a row under %.0f hours", a.ConsecutiveLowSleepDays, LowSleepHours)
	}
	fmt.Fprintf(&b, ", trend %s.\n", a.SleepTrend.Description())

	fmt.Fprintf(&b, "Steps: %d per day on average", a.AverageSteps)
	if a.ConsecutiveLowStepsDays > 0 {
		fmt.Fprintf(&b, ", %d days in a row under %d steps", a.ConsecutiveLowStepsDays, LowSteps)
	}
	fmt.Fprintf(&b, ", trend %s.\n", a.StepsTrend.Description())

	fmt.Fprintf(&b, "Exercise: %d minutes per day on average, trend %s.\n", a.AverageExercise, a.ExerciseTrend.Description())

	fmt.Fprintf(&b, "Overall health score: %d/100", a.AverageScore)
	return b.String()
}
