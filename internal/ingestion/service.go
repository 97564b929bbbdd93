// Package ingestion runs the daily pipeline: score a day's metrics, record
// it, grow the partner, analyze the trend and generate the partner's line.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vitalitypact/vitalitypact/internal/platform/logger"
	"github.com/vitalitypact/vitalitypact/internal/store"
	"github.com/vitalitypact/vitalitypact/pkg/dialogue"
	"github.com/vitalitypact/vitalitypact/pkg/health"
	"github.com/vitalitypact/vitalitypact/pkg/progression"
	"github.com/vitalitypact/vitalitypact/pkg/scoring"
	"github.com/vitalitypact/vitalitypact/pkg/settings"
	"github.com/vitalitypact/vitalitypact/pkg/surface"
	"github.com/vitalitypact/vitalitypact/pkg/trend"
	"github.com/vitalitypact/vitalitypact/pkg/unlock"
)

// DefaultWindowDays is the trend window used when none is configured.
const DefaultWindowDays = 7

var (
	// ErrUnknownCharacter is returned for IDs missing from the catalog.
	ErrUnknownCharacter = errors.New("unknown character")
	// ErrCharacterLocked is returned when a locked character is used as partner.
	ErrCharacterLocked = errors.New("character is locked")
	// ErrInvalidMetrics is returned for negative inputs.
	ErrInvalidMetrics = errors.New("invalid metrics")
)

// DayRequest describes one day of metrics for a user.
type DayRequest struct {
	UserID    string
	PartnerID string // empty uses the partner chosen in settings
	Metrics   health.DailyMetrics
}

// Service orchestrates the daily pipeline over a storage backend.
type Service struct {
	stores    store.Backend
	generator *dialogue.Generator
	catalog   unlock.Catalog
	log       *logger.Logger
	rng       progression.Rand
	now       func() time.Time
	window    int
}

// Option configures a Service.
type Option func(*Service)

// WithGenerator sets the dialogue generator. Without one, lines come from
// the local table.
func WithGenerator(g *dialogue.Generator) Option {
	return func(s *Service) { s.generator = g }
}

// WithCatalog replaces the default character catalog.
func WithCatalog(c unlock.Catalog) Option {
	return func(s *Service) { s.catalog = c }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithRand sets the random source for level-up bumps.
func WithRand(r progression.Rand) Option {
	return func(s *Service) { s.rng = r }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithWindowDays sets the trend analysis window.
func WithWindowDays(days int) Option {
	return func(s *Service) { s.window = days }
}

// NewService creates a new ingestion Service.
func NewService(stores store.Backend, opts ...Option) *Service {
	s := &Service{
		stores:  stores,
		catalog: unlock.DefaultCatalog(),
		log:     logger.Nop(),
		now:     time.Now,
		window:  DefaultWindowDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.generator == nil {
		s.generator = dialogue.NewGenerator(nil, s.log, nil)
	}
	return s
}

// Catalog returns the character catalog the service resolves partners from.
func (s *Service) Catalog() unlock.Catalog {
	return s.catalog
}

func validate(m health.DailyMetrics) error {
	if m.Steps < 0 || m.SleepHours < 0 || m.ExerciseMinutes < 0 || m.HeartRate < 0 {
		return ErrInvalidMetrics
	}
	return nil
}

// Score evaluates metrics without touching any store.
func (s *Service) Score(m health.DailyMetrics) (*surface.Report, error) {
	if err := validate(m); err != nil {
		return nil, err
	}
	score := scoring.Score(m)
	return &surface.Report{
		Date:     health.StartOfDay(s.now()),
		Metrics:  m,
		Score:    score,
		Currency: scoring.Currency(m),
		State:    scoring.StateFor(m, score.OverallScore),
	}, nil
}

// ProcessDay runs the full pipeline for today's metrics. Recording the same
// day again replaces the history record. The partner is credited once per
// day, tracked on the partner record rather than on history.
func (s *Service) ProcessDay(ctx context.Context, req DayRequest) (*surface.Report, error) {
	if err := validate(req.Metrics); err != nil {
		return nil, err
	}
	log := s.log.With("user", req.UserID)
	st := s.stores.ForUser(req.UserID)
	now := s.now()

	prefs, err := settings.Load(ctx, st.Settings)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	partnerID := req.PartnerID
	if partnerID == "" {
		partnerID = prefs.CharacterID
	}
	character, err := s.usableCharacter(ctx, st, partnerID)
	if err != nil {
		return nil, err
	}

	// 1. Score
	score := scoring.Score(req.Metrics)
	report := &surface.Report{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Date:      health.StartOfDay(now),
		Metrics:   req.Metrics,
		Score:     score,
		Currency:  scoring.Currency(req.Metrics),
		State:     scoring.StateFor(req.Metrics, score.OverallScore),
		PartnerID: character.ID,
	}

	// 2. Record history
	replaced, err := st.History.HasToday(ctx)
	if err != nil {
		return nil, fmt.Errorf("check today's record: %w", err)
	}
	report.Replaced = replaced
	rec := health.NewRecord(report.ID, now, req.Metrics, score.OverallScore)
	if err := st.History.Record(ctx, rec); err != nil {
		return nil, fmt.Errorf("record day: %w", err)
	}

	// 3. Partner progression
	result, credited, err := s.engineFor(st).CreditDay(ctx, character.ID, req.Metrics, score.OverallScore)
	if err != nil {
		return nil, fmt.Errorf("apply rewards: %w", err)
	}
	report.Partner = result
	if result.LeveledUp {
		log.Info("partner leveled up", "partner", character.ID, "level", result.Attributes.Level, "gained", result.LevelsGained)
	}

	// 4. Trend analysis
	analysis, err := s.analyze(ctx, st, s.window)
	if err != nil {
		return nil, err
	}
	report.Analysis = &analysis

	// 5. Dialogue
	line := s.generator.Generate(ctx, dialogue.Request{
		Style:    character.Style,
		Level:    score.Level,
		Metrics:  req.Metrics,
		Analysis: &analysis,
	})
	report.Dialogue = &line

	// 6. Real-world reward
	if prefs.Earned(score.Level) {
		reward := prefs.RewardFor(score.Level)
		report.Reward = &reward
	}

	log.Info("day processed",
		"score", score.OverallScore, "level", score.Level, "currency", report.Currency,
		"partner", character.ID, "replaced", replaced, "credited", credited, "fallback_line", line.Fallback)
	return report, nil
}

func (s *Service) engineFor(st *store.Stores) *progression.Engine {
	opts := []progression.Option{progression.WithClock(s.now)}
	if s.rng != nil {
		opts = append(opts, progression.WithRand(s.rng))
	}
	return progression.NewEngine(st.Attributes, opts...)
}

func (s *Service) usableCharacter(ctx context.Context, st *store.Stores, id string) (unlock.Character, error) {
	c, ok := s.catalog.Find(id)
	if !ok {
		return unlock.Character{}, fmt.Errorf("%w: %q", ErrUnknownCharacter, id)
	}
	unlocked, err := unlock.NewLedger(st.Unlocks).IsUnlocked(ctx, c)
	if err != nil {
		return unlock.Character{}, err
	}
	if !unlocked {
		return unlock.Character{}, fmt.Errorf("%w: %q", ErrCharacterLocked, id)
	}
	return c, nil
}

func (s *Service) analyze(ctx context.Context, st *store.Stores, days int) (trend.Analysis, error) {
	records, err := st.History.RecentRecords(ctx, days)
	if err != nil {
		return trend.Analysis{}, fmt.Errorf("load history: %w", err)
	}
	return trend.Analyze(records, days, s.now()), nil
}

// History returns the user's records from the last days, newest first.
func (s *Service) History(ctx context.Context, userID string, days int) ([]health.DailyHealthRecord, error) {
	records, err := s.stores.ForUser(userID).History.RecentRecords(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return records, nil
}

// Analysis returns the trend analysis over the user's last days.
func (s *Service) Analysis(ctx context.Context, userID string, days int) (trend.Analysis, error) {
	if days <= 0 {
		days = s.window
	}
	return s.analyze(ctx, s.stores.ForUser(userID), days)
}

// ClearHistory deletes all of the user's daily records.
func (s *Service) ClearHistory(ctx context.Context, userID string) error {
	if err := s.stores.ForUser(userID).History.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Partner returns a partner's attributes, creating the baseline on first use.
func (s *Service) Partner(ctx context.Context, userID, partnerID string) (progression.PartnerAttributes, error) {
	if _, ok := s.catalog.Find(partnerID); !ok {
		return progression.PartnerAttributes{}, fmt.Errorf("%w: %q", ErrUnknownCharacter, partnerID)
	}
	return s.engineFor(s.stores.ForUser(userID)).Attributes(ctx, partnerID)
}

// ResetPartners deletes every partner record of the user.
func (s *Service) ResetPartners(ctx context.Context, userID string) error {
	return s.engineFor(s.stores.ForUser(userID)).ResetAll(ctx)
}

// Characters lists the catalog with the user's unlock status.
func (s *Service) Characters(ctx context.Context, userID string) ([]unlock.Status, error) {
	return unlock.NewLedger(s.stores.ForUser(userID).Unlocks).List(ctx, s.catalog)
}

// UnlockResult is the outcome of an unlock attempt.
type UnlockResult struct {
	Character unlock.Character `json:"character"`
	Unlocked  bool             `json:"unlocked"`
	Available int              `json:"available"`
}

// UnlockCharacter tries to unlock a character with today's currency. The
// balance is the currency of today's recorded day and is not deducted.
func (s *Service) UnlockCharacter(ctx context.Context, userID, characterID string) (*UnlockResult, error) {
	c, ok := s.catalog.Find(characterID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCharacter, characterID)
	}
	st := s.stores.ForUser(userID)

	available, err := s.todaysCurrency(ctx, st)
	if err != nil {
		return nil, err
	}
	unlocked, err := unlock.NewLedger(st.Unlocks).Unlock(ctx, c, available)
	if err != nil {
		return nil, err
	}
	if unlocked {
		s.log.Info("character unlocked", "user", userID, "character", c.ID)
	}
	return &UnlockResult{Character: c, Unlocked: unlocked, Available: available}, nil
}

func (s *Service) todaysCurrency(ctx context.Context, st *store.Stores) (int, error) {
	records, err := st.History.RecentRecords(ctx, 1)
	if err != nil {
		return 0, fmt.Errorf("load history: %w", err)
	}
	now := s.now()
	for _, r := range records {
		if health.SameDay(now, r.Date) {
			return scoring.Currency(r.Metrics()), nil
		}
	}
	return 0, nil
}

// Settings returns the user's settings or the defaults.
func (s *Service) Settings(ctx context.Context, userID string) (settings.Settings, error) {
	prefs, err := settings.Load(ctx, s.stores.ForUser(userID).Settings)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return prefs, nil
}

// SaveSettings validates and stores the user's settings. The selected
// character must exist and be unlocked.
func (s *Service) SaveSettings(ctx context.Context, userID string, prefs settings.Settings) error {
	if err := prefs.Validate(); err != nil {
		return err
	}
	st := s.stores.ForUser(userID)
	if _, err := s.usableCharacter(ctx, st, prefs.CharacterID); err != nil {
		return err
	}
	if err := st.Settings.Save(ctx, prefs); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Chat answers a free-form message from the user's selected partner, in the
// context of today's recorded metrics.
func (s *Service) Chat(ctx context.Context, userID string, history []dialogue.Message, message string) (string, error) {
	st := s.stores.ForUser(userID)
	prefs, err := settings.Load(ctx, st.Settings)
	if err != nil {
		return "", fmt.Errorf("load settings: %w", err)
	}
	style := prefs.Style
	if c, ok := s.catalog.Find(prefs.CharacterID); ok {
		style = c.Style
	}

	var today health.DailyMetrics
	records, err := st.History.RecentRecords(ctx, 1)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}
	now := s.now()
	for _, r := range records {
		if health.SameDay(now, r.Date) {
			today = r.Metrics()
			break
		}
	}

	return s.generator.Chat(ctx, style, today, history, message)
}
