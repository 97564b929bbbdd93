// Package surface renders daily reports for different output targets:
// terminal, JSON, Markdown.
package surface

import (
	"io"
	"time"

	"github.com/vitalitypact/vitalitypact/pkg/dialogue"
	"github.com/vitalitypact/vitalitypact/pkg/health"
	"github.com/vitalitypact/vitalitypact/pkg/progression"
	"github.com/vitalitypact/vitalitypact/pkg/scoring"
	"github.com/vitalitypact/vitalitypact/pkg/settings"
	"github.com/vitalitypact/vitalitypact/pkg/trend"
)

// Report is everything produced for one user's day. Partner, Analysis and
// Reward are nil when the report comes from a stateless score.
type Report struct {
	ID       string                 `json:"id,omitempty"`
	UserID   string                 `json:"user_id,omitempty"`
	Date     time.Time              `json:"date"`
	Metrics  health.DailyMetrics    `json:"metrics"`
	Score    scoring.ScoreBreakdown `json:"score"`
	Currency int                    `json:"currency"`
	State    scoring.CharacterState `json:"state"`
	Replaced bool                   `json:"replaced,omitempty"` // the day already had a record

	PartnerID string              `json:"partner_id,omitempty"`
	Partner   *progression.Result `json:"partner,omitempty"`
	Analysis  *trend.Analysis     `json:"analysis,omitempty"`
	Dialogue  *dialogue.Line      `json:"dialogue,omitempty"`
	Reward    *settings.Reward    `json:"reward,omitempty"`
}

// Renderer writes a formatted Report.
type Renderer interface {
	Render(w io.Writer, report *Report) error
}

// ForFormat returns the renderer for a --format value. ok is false for
// unknown formats.
func ForFormat(format string) (r Renderer, ok bool) {
	switch format {
	case "", "text":
		return &TerminalRenderer{}, true
	case "json":
		return &JSONRenderer{}, true
	case "markdown", "md":
		return &MarkdownRenderer{}, true
	default:
		return nil, false
	}
}
