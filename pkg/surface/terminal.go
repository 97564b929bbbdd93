package surface

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vitalitypact/vitalitypact/pkg/scoring"
)

// TerminalRenderer renders a Report as colored terminal output.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func levelColor(level scoring.HealthLevel) string {
	if noColor() {
		return ""
	}
	switch level {
	case scoring.LevelGood, scoring.LevelExcellent:
		return colorGreen
	case scoring.LevelNormal:
		return colorYellow
	default:
		return colorRed
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, report *Report) error {
	score := report.Score
	lc := levelColor(score.Level)

	// Header
	fmt.Fprintf(w, "%s\n\n",
		bold(fmt.Sprintf("VitalityPact: %s, score %d/100",
			colored(score.Level.String(), lc), score.OverallScore)))

	fmt.Fprintf(w, "Inputs: %d steps / %.1f h sleep / %d min exercise\n\n",
		report.Metrics.Steps, report.Metrics.SleepHours, report.Metrics.ExerciseMinutes)

	// Per-dimension scores
	fmt.Fprintln(w, "Scores:")
	for _, mr := range score.Breakdown {
		fmt.Fprintf(w, "  %3d  %s", mr.Score, bold(mr.Name))
		if len(mr.Evidence) > 0 {
			fmt.Fprintf(w, "  %s", dim(mr.Evidence[0].Summary))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Currency earned: +%d\n", report.Currency)
	fmt.Fprintf(w, "Mood: %s\n", report.State)
	if report.Replaced {
		fmt.Fprintln(w, dim("Today's earlier record was replaced."))
	}
	fmt.Fprintln(w)

	if p := report.Partner; p != nil {
		a := p.Attributes
		fmt.Fprintf(w, "Partner %s: Lv %d (%d/%d exp)", bold(a.PartnerID), a.Level, a.Experience, a.ExperienceToNextLevel())
		if p.LeveledUp {
			fmt.Fprintf(w, " %s", colored(fmt.Sprintf("LEVEL UP +%d", p.LevelsGained), colorGreen))
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  STR %d  VIT %d  AGI %d  WIS %d  Power %d\n",
			a.Strength, a.Vitality, a.Agility, a.Wisdom, a.TotalPower())
		if gains := formatGains(p.Rewards.ExperienceGain, p.Rewards.StrengthGain, p.Rewards.VitalityGain,
			p.Rewards.AgilityGain, p.Rewards.WisdomGain); gains != "" {
			fmt.Fprintf(w, "  %s\n", dim(gains))
		}
		fmt.Fprintln(w)
	}

	if a := report.Analysis; a != nil && a.RecentDays > 0 {
		for _, line := range strings.Split(a.Summary(), "\n") {
			fmt.Fprintf(w, "%s\n", line)
		}
		fmt.Fprintln(w)
	}

	if d := report.Dialogue; d != nil && d.Text != "" {
		for _, line := range wrapText(d.Text, 70) {
			fmt.Fprintf(w, "  %s\n", line)
		}
		fmt.Fprintln(w)
	}

	if rw := report.Reward; rw != nil {
		fmt.Fprintf(w, "%s %s %s\n\n", colored("Reward earned:", colorGreen), rw.Icon, rw.Text)
	}

	return nil
}

func formatGains(exp, str, vit, agi, wis int) string {
	var parts []string
	add := func(label string, v int) {
		if v != 0 {
			parts = append(parts, fmt.Sprintf("%s %+d", label, v))
		}
	}
	add("EXP", exp)
	add("STR", str)
	add("VIT", vit)
	add("AGI", agi)
	add("WIS", wis)
	return strings.Join(parts, ", ")
}

// wrapText wraps a string at the given width, returning lines.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)
	return lines
}
