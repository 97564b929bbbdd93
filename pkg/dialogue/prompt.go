package dialogue

import (
	"fmt"
	"strings"

	"github.com/vitalitypact/vitalitypact/pkg/health"
	"github.com/vitalitypact/vitalitypact/pkg/scoring"
	"github.com/vitalitypact/vitalitypact/pkg/trend"
)

func describeSteps(steps int) string {
	switch {
	case steps < 2000:
		return "very few"
	case steps < 5000:
		return "on the low side"
	case steps < 8000:
		return "okay"
	default:
		return "good"
	}
}

func describeSleep(hours float64) string {
	switch {
	case hours < 5:
		return "severely short"
	case hours < 6:
		return "not quite enough"
	case hours < 7:
		return "okay"
	default:
		return "plenty"
	}
}

func writeStatus(b *strings.Builder, level scoring.HealthLevel, m health.DailyMetrics) {
	fmt.Fprintf(b, "- Sleep: %.1f hours (%s)\n", m.SleepHours, describeSleep(m.SleepHours))
	fmt.Fprintf(b, "- Steps: %d (%s)\n", m.Steps, describeSteps(m.Steps))
	fmt.Fprintf(b, "- Exercise: %d minutes\n", m.ExerciseMinutes)
	fmt.Fprintf(b, "- Overall health level: %s\n", level)
}

// BuildPrompt is the user message for a daily line. analysis is optional.
func BuildPrompt(level scoring.HealthLevel, m health.DailyMetrics, analysis *trend.Analysis) string {
	var b strings.Builder
	b.WriteString("Today's data for your partner:\n")
	writeStatus(&b, level, m)
	if analysis != nil && analysis.RecentDays > 0 {
		b.WriteString("\n")
		b.WriteString(analysis.Summary())
		b.WriteString("\n")
	}
	b.WriteString(`
Say one sentence in character based on this. Rules:
1. At most 30 words
2. Stay in character and sound natural
3. Encourage or advise according to the health state
4. Address the user as "you"
5. Sound like a friend chatting`)
	return b.String()
}

// BuildChatPrompt wraps a free-form user message with the day's health context.
func BuildChatPrompt(userMessage string, level scoring.HealthLevel, m health.DailyMetrics) string {
	var b strings.Builder
	b.WriteString("The user's current health:\n")
	writeStatus(&b, level, m)
	fmt.Fprintf(&b, "\nThe user says: %s\n", userMessage)
	b.WriteString(`
Reply in character. Rules:
1. Natural and friendly, like chatting with a friend
2. Mention their health when it fits, not every time
3. Respond to what they actually said
4. At most 50 words`)
	return b.String()
}
