package progression_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalitypact/vitalitypact/pkg/health"
	"github.com/vitalitypact/vitalitypact/pkg/progression"
)

var (
	fixedNow   = time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)
	perfectDay = health.DailyMetrics{Steps: 10000, SleepHours: 8, ExerciseMinutes: 60}
)

// edgeRand always returns the lowest or highest value IntN allows.
type edgeRand struct{ high bool }

func (r edgeRand) IntN(n int) int {
	if r.high {
		return n - 1
	}
	return 0
}

func newEngine(store progression.Store, rng progression.Rand) *progression.Engine {
	return progression.NewEngine(store,
		progression.WithRand(rng),
		progression.WithClock(func() time.Time { return fixedNow }),
	)
}

func TestApplyPerfectDayFromBaseline(t *testing.T) {
	ctx := context.Background()
	engine := newEngine(progression.NewMemoryStore(), edgeRand{})

	res, err := engine.ApplyDailyRewards(ctx, "fox", perfectDay)
	require.NoError(t, err)

	assert.Equal(t, progression.PartnerRewards{
		ExperienceGain: 110,
		StrengthGain:   2,
		VitalityGain:   2,
		AgilityGain:    2,
		WisdomGain:     2,
	}, res.Rewards)
	assert.False(t, res.LeveledUp)
	assert.Equal(t, 0, res.LevelsGained)

	a := res.Attributes
	assert.Equal(t, 1, a.Level)
	assert.Equal(t, 110, a.Experience)
	assert.Equal(t, 12, a.Strength)
	assert.Equal(t, 12, a.Vitality)
	assert.Equal(t, 12, a.Agility)
	assert.Equal(t, 12, a.Wisdom)
	assert.Equal(t, 1, a.TotalDaysActive)
	assert.Equal(t, fixedNow, a.LastActiveDate)
}

func TestApplyCascadingLevelUp(t *testing.T) {
	tests := []struct {
		name     string
		rng      progression.Rand
		strength int
		wisdom   int
	}{
		// 10 base + 2 daily + two bumps
		{"lowest bumps", edgeRand{high: false}, 14, 14},
		{"highest bumps", edgeRand{high: true}, 18, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := progression.NewMemoryStore()
			seed := progression.NewAttributes("owl", fixedNow)
			seed.Experience = 400
			require.NoError(t, store.Save(ctx, seed))

			res, err := newEngine(store, tt.rng).ApplyDailyRewards(ctx, "owl", perfectDay)
			require.NoError(t, err)

			// 510 exp: 150 to reach level 2, 250 to reach level 3, 110 left over
			assert.True(t, res.LeveledUp)
			assert.Equal(t, 2, res.LevelsGained)
			assert.Equal(t, 3, res.Attributes.Level)
			assert.Equal(t, 110, res.Attributes.Experience)
			assert.Equal(t, tt.strength, res.Attributes.Strength)
			assert.Equal(t, tt.strength, res.Attributes.Vitality)
			assert.Equal(t, tt.strength, res.Attributes.Agility)
			assert.Equal(t, tt.wisdom, res.Attributes.Wisdom)
		})
	}
}

func TestLevelUpBumpBounds(t *testing.T) {
	ctx := context.Background()
	rules := progression.RewardRules{
		Steps: []progression.RewardBand{{Min: 0, Experience: 10000}},
	}
	engine := progression.NewEngine(progression.NewMemoryStore(),
		progression.WithRand(rand.New(rand.NewPCG(7, 11))),
		progression.WithRules(rules),
		progression.WithClock(func() time.Time { return fixedNow }),
	)

	res, err := engine.ApplyDailyRewards(ctx, "elf", health.DailyMetrics{})
	require.NoError(t, err)

	// Thresholds 150, 250, ... sum to 9750 after 13 levels.
	a := res.Attributes
	require.Equal(t, 13, res.LevelsGained)
	assert.Equal(t, 14, a.Level)
	assert.Equal(t, 250, a.Experience)
	for name, v := range map[string]int{"strength": a.Strength, "vitality": a.Vitality, "agility": a.Agility} {
		assert.GreaterOrEqual(t, v, 10+13, name)
		assert.LessOrEqual(t, v, 10+3*13, name)
	}
	assert.GreaterOrEqual(t, a.Wisdom, 10+13)
	assert.LessOrEqual(t, a.Wisdom, 10+2*13)
}

func TestAttributeFloor(t *testing.T) {
	ctx := context.Background()
	store := progression.NewMemoryStore()
	seed := progression.NewAttributes("bear", fixedNow)
	seed.Vitality = 1
	require.NoError(t, store.Save(ctx, seed))

	res, err := newEngine(store, edgeRand{}).ApplyDailyRewards(ctx, "bear", health.DailyMetrics{SleepHours: 4})
	require.NoError(t, err)

	assert.Equal(t, -1, res.Rewards.VitalityGain)
	assert.Equal(t, 1, res.Attributes.Vitality)
	assert.Equal(t, 1, res.Attributes.TotalDaysActive, "activity counts even without rewards")
}

func TestPartnersAreIndependent(t *testing.T) {
	ctx := context.Background()
	engine := newEngine(progression.NewMemoryStore(), edgeRand{})

	_, err := engine.ApplyDailyRewards(ctx, "fox", perfectDay)
	require.NoError(t, err)

	other, err := engine.Attributes(ctx, "pixel_hero")
	require.NoError(t, err)
	assert.Equal(t, progression.NewAttributes("pixel_hero", fixedNow), other)

	fox, err := engine.Attributes(ctx, "fox")
	require.NoError(t, err)
	assert.Equal(t, 110, fox.Experience)
}

func TestAttributesCreatesLazily(t *testing.T) {
	ctx := context.Background()
	store := progression.NewMemoryStore()
	engine := newEngine(store, edgeRand{})

	_, found, err := store.Get(ctx, "girl_genki")
	require.NoError(t, err)
	require.False(t, found)

	_, err = engine.Attributes(ctx, "girl_genki")
	require.NoError(t, err)

	a, found, err := store.Get(ctx, "girl_genki")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, a.Level)
	assert.Equal(t, 45, a.TotalPower())
}

func TestResetAll(t *testing.T) {
	ctx := context.Background()
	store := progression.NewMemoryStore()
	engine := newEngine(store, edgeRand{})

	_, err := engine.ApplyDailyRewards(ctx, "fox", perfectDay)
	require.NoError(t, err)
	require.NoError(t, engine.ResetAll(ctx))

	_, found, err := store.Get(ctx, "fox")
	require.NoError(t, err)
	assert.False(t, found)
}

type failingStore struct{}

func (failingStore) Save(context.Context, progression.PartnerAttributes) error {
	return errors.New("disk full")
}

func (failingStore) Get(context.Context, string) (progression.PartnerAttributes, bool, error) {
	return progression.PartnerAttributes{}, false, nil
}

func (failingStore) DeleteAll(context.Context) error { return nil }

func TestApplyPropagatesStoreErrors(t *testing.T) {
	engine := newEngine(failingStore{}, edgeRand{})
	_, err := engine.ApplyDailyRewards(context.Background(), "fox", perfectDay)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

// creditFailStore fails the next fails saves of credited records.
type creditFailStore struct {
	*progression.MemoryStore
	fails int
}

func (s *creditFailStore) Save(ctx context.Context, attrs progression.PartnerAttributes) error {
	if attrs.TotalDaysActive > 0 && s.fails > 0 {
		s.fails--
		return errors.New("connection reset")
	}
	return s.MemoryStore.Save(ctx, attrs)
}

func TestCreditDayOncePerDay(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	store := &creditFailStore{MemoryStore: progression.NewMemoryStore(), fails: 1}
	engine := progression.NewEngine(store,
		progression.WithRand(edgeRand{}),
		progression.WithClock(func() time.Time { return now }),
	)

	_, _, err := engine.CreditDay(ctx, "fox", perfectDay, 100)
	require.Error(t, err)

	baseline, err := engine.Attributes(ctx, "fox")
	require.NoError(t, err)
	assert.False(t, baseline.CreditedOn(now), "a fresh record has never been credited")

	res, credited, err := engine.CreditDay(ctx, "fox", perfectDay, 100)
	require.NoError(t, err)
	assert.True(t, credited, "the retry pays out")
	assert.Equal(t, 110, res.Attributes.Experience)

	now = now.Add(2 * time.Hour)
	res, credited, err = engine.CreditDay(ctx, "fox", perfectDay, 100)
	require.NoError(t, err)
	assert.False(t, credited)
	assert.False(t, res.Rewards.HasAnyReward())
	assert.Equal(t, 110, res.Attributes.Experience)
	assert.Equal(t, 1, res.Attributes.TotalDaysActive)

	now = now.AddDate(0, 0, 1)
	res, credited, err = engine.CreditDay(ctx, "fox", perfectDay, 100)
	require.NoError(t, err)
	assert.True(t, credited)
	assert.Equal(t, 2, res.Attributes.TotalDaysActive)
}

func TestCalculateRewards(t *testing.T) {
	tests := []struct {
		name    string
		m       health.DailyMetrics
		overall int
		want    progression.PartnerRewards
	}{
		{"nothing", health.DailyMetrics{SleepHours: 5.5}, 0, progression.PartnerRewards{}},
		{"sleep penalty", health.DailyMetrics{SleepHours: 4.9}, 0, progression.PartnerRewards{VitalityGain: -1}},
		{"middle steps", health.DailyMetrics{Steps: 7000, SleepHours: 5.5}, 0, progression.PartnerRewards{ExperienceGain: 20, StrengthGain: 1}},
		{"low steps", health.DailyMetrics{Steps: 5000, SleepHours: 5.5}, 0, progression.PartnerRewards{ExperienceGain: 10}},
		{"short workout", health.DailyMetrics{ExerciseMinutes: 15, SleepHours: 6}, 0, progression.PartnerRewards{ExperienceGain: 20}},
		{"good overall has no exp", health.DailyMetrics{SleepHours: 5.5}, 60, progression.PartnerRewards{WisdomGain: 1}},
		{"great overall", health.DailyMetrics{SleepHours: 7}, 80, progression.PartnerRewards{ExperienceGain: 40, VitalityGain: 1, WisdomGain: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, progression.CalculateRewards(tt.m, tt.overall))
		})
	}
}

func TestHasAnyReward(t *testing.T) {
	assert.False(t, progression.PartnerRewards{}.HasAnyReward())
	assert.False(t, progression.PartnerRewards{VitalityGain: -1}.HasAnyReward())
	assert.True(t, progression.PartnerRewards{WisdomGain: 1}.HasAnyReward())
}

func TestExperienceHelpers(t *testing.T) {
	a := progression.NewAttributes("sage", fixedNow)
	assert.Equal(t, 150, a.ExperienceToNextLevel())
	assert.Equal(t, 450, progression.ExperienceToNextLevel(4))

	a.Experience = 75
	assert.InDelta(t, 0.5, a.ExperiencePercentage(), 1e-9)
	assert.False(t, a.CanLevelUp())

	a.Experience = 150
	assert.True(t, a.CanLevelUp())
}
