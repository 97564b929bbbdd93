package dialogue

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/vitalitypact/vitalitypact/internal/platform/logger"
	"github.com/vitalitypact/vitalitypact/pkg/health"
	"github.com/vitalitypact/vitalitypact/pkg/scoring"
	"github.com/vitalitypact/vitalitypact/pkg/trend"
)

// Rand picks among fallback lines. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Generation settings for the two kinds of request.
var (
	LineOptions = CompletionOptions{MaxTokens: 80, Temperature: 0.8}
	ChatOptions = CompletionOptions{MaxTokens: 150, Temperature: 0.9}
)

// ChatHistoryLimit is how many prior chat turns are sent with a message.
const ChatHistoryLimit = 6

// ErrNoClient is returned by Chat when no completion client is configured.
var ErrNoClient = errors.New("dialogue client not configured")

// Request describes the day a line is generated for.
type Request struct {
	Style    Style
	Level    scoring.HealthLevel
	Metrics  health.DailyMetrics
	Analysis *trend.Analysis // optional
}

// Line is a generated partner line.
type Line struct {
	Text     string `json:"text"`
	Fallback bool   `json:"fallback"`
}

// Generator produces partner lines.
type Generator struct {
	client Completer
	log    *logger.Logger
	rng    Rand
}

// NewGenerator creates a generator. A nil client always uses the local lines
// and a nil rng uses the global source.
func NewGenerator(client Completer, log *logger.Logger, rng Rand) *Generator {
	if rng == nil {
		rng = globalRand{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{client: client, log: log, rng: rng}
}

// Generate never fails: any client error yields a local line for the style and level.
func (g *Generator) Generate(ctx context.Context, req Request) Line {
	if g.client == nil {
		return Line{Text: Fallback(req.Style, req.Level, g.rng), Fallback: true}
	}

	text, err := g.client.Complete(ctx, []Message{
		{Role: "system", Content: systemPrompt(req.Style)},
		{Role: "user", Content: BuildPrompt(req.Level, req.Metrics, req.Analysis)},
	}, LineOptions)
	if err != nil {
		g.log.Warn("dialogue generation failed, using local line", "style", req.Style, "level", req.Level, "error", err)
		return Line{Text: Fallback(req.Style, req.Level, g.rng), Fallback: true}
	}
	return Line{Text: text}
}

// Chat answers a free-form message in character. Only the most recent
// ChatHistoryLimit turns of history are sent. Unlike Generate, errors are returned.
func (g *Generator) Chat(ctx context.Context, style Style, m health.DailyMetrics, history []Message, userMessage string) (string, error) {
	if g.client == nil {
		return "", ErrNoClient
	}
	if len(history) > ChatHistoryLimit {
		history = history[len(history)-ChatHistoryLimit:]
	}

	level := scoring.Score(m).Level
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: chatSystemPrompt(style)})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: "user", Content: BuildChatPrompt(userMessage, level, m)})

	text, err := g.client.Complete(ctx, messages, ChatOptions)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return text, nil
}
