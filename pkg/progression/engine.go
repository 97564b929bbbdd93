package progression

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/vitalitypact/vitalitypact/pkg/health"
	"github.com/vitalitypact/vitalitypact/pkg/scoring"
)

// Rand is the random source for level-up bumps. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Store persists partner attribute records.
type Store interface {
	// Get returns the record for partnerID. found is false when none exists.
	Get(ctx context.Context, partnerID string) (attrs PartnerAttributes, found bool, err error)
	Save(ctx context.Context, attrs PartnerAttributes) error
	DeleteAll(ctx context.Context) error
}

// Result is the outcome of applying one day of rewards.
type Result struct {
	Attributes   PartnerAttributes `json:"attributes"`
	Rewards      PartnerRewards    `json:"rewards"`
	LeveledUp    bool              `json:"leveled_up"`
	LevelsGained int               `json:"levels_gained"`
}

// Engine applies daily rewards to partner records held in a Store.
type Engine struct {
	store Store
	rules RewardRules
	rng   Rand
	now   func() time.Time

	mu sync.Mutex // serializes read-modify-write on records
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the level-up random source.
func WithRand(r Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithClock sets the time source for activity dates.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRules replaces the default reward rules.
func WithRules(rr RewardRules) Option {
	return func(e *Engine) { e.rules = rr }
}

// NewEngine creates a progression engine over store.
func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		rules: DefaultRewardRules(),
		rng:   globalRand{},
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Attributes returns the record for partnerID, creating and persisting the
// baseline record on first access.
func (e *Engine) Attributes(ctx context.Context, partnerID string) (PartnerAttributes, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.load(ctx, partnerID)
}

func (e *Engine) load(ctx context.Context, partnerID string) (PartnerAttributes, error) {
	attrs, found, err := e.store.Get(ctx, partnerID)
	if err != nil {
		return PartnerAttributes{}, fmt.Errorf("loading partner %s: %w", partnerID, err)
	}
	if found {
		return attrs, nil
	}

	attrs = NewAttributes(partnerID, e.now())
	if err := e.store.Save(ctx, attrs); err != nil {
		return PartnerAttributes{}, fmt.Errorf("creating partner %s: %w", partnerID, err)
	}
	return attrs, nil
}

// ApplyDailyRewards scores m, applies the resulting rewards to the partner and
// persists the record. CreditDay is the once-per-day variant.
func (e *Engine) ApplyDailyRewards(ctx context.Context, partnerID string, m health.DailyMetrics) (*Result, error) {
	return e.ApplyRewards(ctx, partnerID, m, scoring.Score(m).OverallScore)
}

// ApplyRewards is ApplyDailyRewards with a precomputed overall score.
func (e *Engine) ApplyRewards(ctx context.Context, partnerID string, m health.DailyMetrics, overallScore int) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	attrs, err := e.load(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	return e.apply(ctx, attrs, m, overallScore)
}

// CreditDay applies the day's rewards unless the partner was already credited
// today. credited is false when the stored record came back unchanged.
func (e *Engine) CreditDay(ctx context.Context, partnerID string, m health.DailyMetrics, overallScore int) (res *Result, credited bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	attrs, err := e.load(ctx, partnerID)
	if err != nil {
		return nil, false, err
	}
	if attrs.CreditedOn(e.now()) {
		return &Result{Attributes: attrs}, false, nil
	}
	res, err = e.apply(ctx, attrs, m, overallScore)
	if err != nil {
		return nil, false, err
	}
	return res, true, nil
}

func (e *Engine) apply(ctx context.Context, attrs PartnerAttributes, m health.DailyMetrics, overallScore int) (*Result, error) {
	startLevel := attrs.Level

	rewards := e.rules.Calculate(m, overallScore)
	gained := attrs.apply(rewards, e.rng)

	attrs.TotalDaysActive++
	attrs.LastActiveDate = e.now()

	if err := e.store.Save(ctx, attrs); err != nil {
		return nil, fmt.Errorf("saving partner %s: %w", attrs.PartnerID, err)
	}

	return &Result{
		Attributes:   attrs,
		Rewards:      rewards,
		LeveledUp:    attrs.Level > startLevel,
		LevelsGained: gained,
	}, nil
}

// ResetAll deletes every partner record.
func (e *Engine) ResetAll(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("resetting partners: %w", err)
	}
	return nil
}
