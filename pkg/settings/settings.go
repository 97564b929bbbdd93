// Package settings holds a user's preferences: the selected partner and the
// real-world rewards they promise themselves per health level.
package settings

import (
	"context"
	"errors"

	"github.com/vitalitypact/vitalitypact/pkg/dialogue"
	"github.com/vitalitypact/vitalitypact/pkg/scoring"
)

// Settings are one user's preferences. Level-keyed maps encode as level
// names in JSON.
type Settings struct {
	Style                  dialogue.Style                 `json:"style"`
	CharacterID            string                         `json:"character_id"`
	HasCompletedOnboarding bool                           `json:"has_completed_onboarding"`
	RewardTriggerLevel     scoring.HealthLevel            `json:"reward_trigger_level"`
	RewardTexts            map[scoring.HealthLevel]string `json:"reward_texts"`
	RewardIcons            map[scoring.HealthLevel]string `json:"reward_icons"`
}

// Reward is what the user has promised themselves for a level.
type Reward struct {
	Level scoring.HealthLevel `json:"level"`
	Icon  string              `json:"icon"`
	Text  string              `json:"text"`
}

const fallbackRewardText = "Keep going!"

var errInvalidTrigger = errors.New("invalid reward trigger level")

var defaultIcons = map[scoring.HealthLevel]string{
	scoring.LevelCritical:  "💤",
	scoring.LevelWeak:      "🤗",
	scoring.LevelNormal:    "⭐",
	scoring.LevelGood:      "🎁",
	scoring.LevelExcellent: "🏆",
}

// Defaults returns the settings of a new user.
func Defaults() Settings {
	icons := make(map[scoring.HealthLevel]string, len(defaultIcons))
	for l, icon := range defaultIcons {
		icons[l] = icon
	}
	return Settings{
		Style:              dialogue.Warrior,
		CharacterID:        string(dialogue.Warrior),
		RewardTriggerLevel: scoring.LevelGood,
		RewardTexts: map[scoring.HealthLevel]string{
			scoring.LevelCritical:  "Get some proper rest",
			scoring.LevelWeak:      "Have a warm drink and relax",
			scoring.LevelNormal:    "Keep it up, you're doing great",
			scoring.LevelGood:      "Treat yourself to a bubble tea",
			scoring.LevelExcellent: "Amazing! Give yourself a big reward",
		},
		RewardIcons: icons,
	}
}

// RewardFor returns the reward configured for level, falling back to the
// default icon and a generic text.
func (s Settings) RewardFor(level scoring.HealthLevel) Reward {
	text, ok := s.RewardTexts[level]
	if !ok {
		text = fallbackRewardText
	}
	icon, ok := s.RewardIcons[level]
	if !ok {
		icon = defaultIcons[level]
	}
	return Reward{Level: level, Icon: icon, Text: text}
}

// Earned reports whether a day at level reaches the reward trigger.
func (s Settings) Earned(level scoring.HealthLevel) bool {
	return level >= s.RewardTriggerLevel
}

// Validate rejects settings that reference unknown styles or levels.
func (s Settings) Validate() error {
	if _, err := dialogue.ParseStyle(string(s.Style)); err != nil {
		return err
	}
	if !s.RewardTriggerLevel.Valid() {
		return errInvalidTrigger
	}
	return nil
}

// Store persists one user's settings.
type Store interface {
	// Load returns the stored settings; found is false when none were saved.
	Load(ctx context.Context) (s Settings, found bool, err error)
	Save(ctx context.Context, s Settings) error
}

// Load returns the stored settings or Defaults when none exist.
func Load(ctx context.Context, store Store) (Settings, error) {
	s, found, err := store.Load(ctx)
	if err != nil {
		return Settings{}, err
	}
	if !found {
		return Defaults(), nil
	}
	return s, nil
}
