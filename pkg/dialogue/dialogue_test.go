package dialogue_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalitypact/vitalitypact/internal/platform/logger"
	"github.com/vitalitypact/vitalitypact/pkg/dialogue"
	"github.com/vitalitypact/vitalitypact/pkg/health"
	"github.com/vitalitypact/vitalitypact/pkg/scoring"
	"github.com/vitalitypact/vitalitypact/pkg/trend"
)

type firstRand struct{}

func (firstRand) IntN(int) int { return 0 }

type fakeCompleter struct {
	text     string
	err      error
	messages []dialogue.Message
	opts     dialogue.CompletionOptions
}

func (f *fakeCompleter) Complete(_ context.Context, messages []dialogue.Message, opts dialogue.CompletionOptions) (string, error) {
	f.messages = messages
	f.opts = opts
	return f.text, f.err
}

func TestFallbackTableIsComplete(t *testing.T) {
	for _, style := range dialogue.AllStyles() {
		for _, level := range scoring.AllLevels() {
			lines := dialogue.FallbackLines(style, level)
			require.Len(t, lines, 3, "%s/%s", style, level)
			for _, l := range lines {
				assert.NotEmpty(t, l, "%s/%s", style, level)
			}
		}
	}
}

func TestFallbackUnknownStyle(t *testing.T) {
	got := dialogue.Fallback(dialogue.Style("bard"), scoring.LevelGood, firstRand{})
	assert.Equal(t, dialogue.FallbackLines(dialogue.Warrior, scoring.LevelGood)[0], got)
	assert.Nil(t, dialogue.FallbackLines(dialogue.Style("bard"), scoring.LevelGood))
}

func TestGenerateUsesClient(t *testing.T) {
	fc := &fakeCompleter{text: "Nice walk today!"}
	g := dialogue.NewGenerator(fc, logger.Nop(), firstRand{})

	line := g.Generate(context.Background(), dialogue.Request{
		Style:   dialogue.Sage,
		Level:   scoring.LevelGood,
		Metrics: health.DailyMetrics{Steps: 8500, SleepHours: 7.2, ExerciseMinutes: 25},
	})

	assert.Equal(t, dialogue.Line{Text: "Nice walk today!"}, line)
	assert.Equal(t, dialogue.LineOptions, fc.opts)
	require.Len(t, fc.messages, 2)
	assert.Equal(t, "system", fc.messages[0].Role)
	assert.Contains(t, fc.messages[1].Content, "Steps: 8500 (good)")
	assert.Contains(t, fc.messages[1].Content, "Sleep: 7.2 hours (plenty)")
	assert.Contains(t, fc.messages[1].Content, "level: good")
}

func TestGenerateFallsBackOnError(t *testing.T) {
	fc := &fakeCompleter{err: errors.New("timeout")}
	g := dialogue.NewGenerator(fc, logger.Nop(), firstRand{})

	line := g.Generate(context.Background(), dialogue.Request{Style: dialogue.Pet, Level: scoring.LevelCritical})

	assert.True(t, line.Fallback)
	assert.Equal(t, dialogue.FallbackLines(dialogue.Pet, scoring.LevelCritical)[0], line.Text)
}

func TestGenerateWithoutClient(t *testing.T) {
	g := dialogue.NewGenerator(nil, nil, nil)
	line := g.Generate(context.Background(), dialogue.Request{Style: dialogue.Mage, Level: scoring.LevelNormal})
	assert.True(t, line.Fallback)
	assert.Contains(t, dialogue.FallbackLines(dialogue.Mage, scoring.LevelNormal), line.Text)
}

func TestBuildPromptIncludesAnalysis(t *testing.T) {
	a := trend.Analysis{RecentDays: 5, AverageSleep: 5.5, ConsecutiveLowSleepDays: 2,
		SleepTrend: trend.Declining, StepsTrend: trend.Stable, ExerciseTrend: trend.Stable}
	p := dialogue.BuildPrompt(scoring.LevelWeak, health.DailyMetrics{Steps: 1500, SleepHours: 4.5}, &a)

	assert.Contains(t, p, "very few")
	assert.Contains(t, p, "severely short")
	assert.Contains(t, p, "last 5 days")

	bare := dialogue.BuildPrompt(scoring.LevelWeak, health.DailyMetrics{}, &trend.Analysis{})
	assert.NotContains(t, bare, "last 0 days")
}

func TestChatTrimsHistory(t *testing.T) {
	fc := &fakeCompleter{text: "Sure, let's stretch."}
	g := dialogue.NewGenerator(fc, logger.Nop(), firstRand{})

	var history []dialogue.Message
	for i := 0; i < 10; i++ {
		history = append(history, dialogue.Message{Role: "user", Content: string(rune('a' + i))})
	}
	reply, err := g.Chat(context.Background(), dialogue.Warrior, health.DailyMetrics{}, history, "any tips?")
	require.NoError(t, err)

	assert.Equal(t, "Sure, let's stretch.", reply)
	assert.Equal(t, dialogue.ChatOptions, fc.opts)
	require.Len(t, fc.messages, dialogue.ChatHistoryLimit+2)
	assert.Equal(t, "e", fc.messages[1].Content)
	assert.Contains(t, fc.messages[len(fc.messages)-1].Content, "any tips?")
}

func TestChatWithoutClient(t *testing.T) {
	g := dialogue.NewGenerator(nil, logger.Nop(), nil)
	_, err := g.Chat(context.Background(), dialogue.Sage, health.DailyMetrics{}, nil, "hi")
	assert.ErrorIs(t, err, dialogue.ErrNoClient)
}

func TestClientComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body["model"])
		assert.Equal(t, float64(80), body["max_tokens"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Keep going!\n"}}]}`))
	}))
	defer srv.Close()

	c, err := dialogue.NewClient(dialogue.ClientConfig{BaseURL: srv.URL + "/", APIKey: "test-key", Model: "test-model"}, logger.Nop())
	require.NoError(t, err)

	text, err := c.Complete(context.Background(), []dialogue.Message{{Role: "user", Content: "hi"}}, dialogue.LineOptions)
	require.NoError(t, err)
	assert.Equal(t, "Keep going!", text)
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{"server error", http.StatusTooManyRequests, `{"error":"slow down"}`, func(t *testing.T, err error) {
			var he *dialogue.HTTPError
			require.ErrorAs(t, err, &he)
			assert.Equal(t, http.StatusTooManyRequests, he.StatusCode)
		}},
		{"no choices", http.StatusOK, `{"choices":[]}`, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, dialogue.ErrEmptyCompletion)
		}},
		{"bad json", http.StatusOK, `not json`, func(t *testing.T, err error) {
			assert.Error(t, err)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, err := dialogue.NewClient(dialogue.ClientConfig{BaseURL: srv.URL, APIKey: "k"}, logger.Nop())
			require.NoError(t, err)
			_, err = c.Complete(context.Background(), nil, dialogue.LineOptions)
			tt.check(t, err)
		})
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := dialogue.NewClient(dialogue.ClientConfig{}, logger.Nop())
	assert.Error(t, err)
}

func TestParseStyle(t *testing.T) {
	s, err := dialogue.ParseStyle("mage")
	require.NoError(t, err)
	assert.Equal(t, dialogue.Mage, s)

	_, err = dialogue.ParseStyle("rogue")
	assert.Error(t, err)
}
