package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/vitalitypact/vitalitypact/pkg/scoring"
)

// MarkdownRenderer writes a Report as a Markdown summary.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(w io.Writer, report *Report) error {
	_, err := io.WriteString(w, BuildMarkdownSummary(report))
	return err
}

// BuildMarkdownSummary renders the report body as Markdown.
func BuildMarkdownSummary(report *Report) string {
	var sb strings.Builder
	score := report.Score

	sb.WriteString(fmt.Sprintf("## VitalityPact: %s (%d/100)\n\n", score.Level, score.OverallScore))

	sb.WriteString("### Scores\n\n")
	sb.WriteString("| Dimension | Score | Severity |\n|-----------|-------|----------|\n")
	for _, mr := range score.Breakdown {
		sb.WriteString(fmt.Sprintf("| %s %s | %d | %s |\n",
			severityIcon(mr.Severity), mr.Name, mr.Score, mr.Severity))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("- Currency earned: **+%d**\n", report.Currency))
	sb.WriteString(fmt.Sprintf("- Mood: %s\n", report.State))
	if weakest, ok := score.Weakest(); ok && weakest.Score < 80 {
		sb.WriteString(fmt.Sprintf("- Focus next: %s\n", weakest.Name))
	}
	sb.WriteString("\n")

	if p := report.Partner; p != nil {
		a := p.Attributes
		sb.WriteString(fmt.Sprintf("### Partner %s\n\n", a.PartnerID))
		sb.WriteString(fmt.Sprintf("Level %d, %d/%d exp", a.Level, a.Experience, a.ExperienceToNextLevel()))
		if p.LeveledUp {
			sb.WriteString(fmt.Sprintf(" (**level up +%d**)", p.LevelsGained))
		}
		sb.WriteString("\n\n")
		sb.WriteString("| STR | VIT | AGI | WIS | Power |\n|-----|-----|-----|-----|-------|\n")
		sb.WriteString(fmt.Sprintf("| %d | %d | %d | %d | %d |\n\n",
			a.Strength, a.Vitality, a.Agility, a.Wisdom, a.TotalPower()))
	}

	if a := report.Analysis; a != nil && a.RecentDays > 0 {
		sb.WriteString("### Trend\n\n")
		for _, line := range strings.Split(a.Summary(), "\n") {
			sb.WriteString("> " + line + "\n")
		}
		sb.WriteString("\n")
	}

	if d := report.Dialogue; d != nil && d.Text != "" {
		sb.WriteString(fmt.Sprintf("_%s_\n\n", d.Text))
	}

	if rw := report.Reward; rw != nil {
		sb.WriteString(fmt.Sprintf("%s **%s**\n", rw.Icon, rw.Text))
	}

	return sb.String()
}

func severityIcon(sev scoring.Severity) string {
	switch sev {
	case scoring.SeverityHigh:
		return ":red_circle:"
	case scoring.SeverityMedium:
		return ":orange_circle:"
	case scoring.SeverityLow:
		return ":yellow_circle:"
	default:
		return ":green_circle:"
	}
}
