// Package progression grows a partner's RPG attributes from daily health metrics.
package progression

import (
	"time"

	"github.com/vitalitypact/vitalitypact/pkg/health"
)

// Baseline values for a newly created partner.
const (
	StartLevel     = 1
	StartAttribute = 10
	MinAttribute   = 1
)

// PartnerAttributes is the persistent record of one partner. Each partner ID
// has its own record and switching partners never shares or resets them.
type PartnerAttributes struct {
	PartnerID  string `json:"partner_id"`
	Level      int    `json:"level"`
	Experience int    `json:"experience"`

	Strength int `json:"strength"` // steps
	Vitality int `json:"vitality"` // sleep
	Agility  int `json:"agility"`  // exercise
	Wisdom   int `json:"wisdom"`   // overall score

	TotalDaysActive int       `json:"total_days_active"`
	LastActiveDate  time.Time `json:"last_active_date"`
	CreatedDate     time.Time `json:"created_date"`
}

// NewAttributes returns the baseline record for a partner.
func NewAttributes(partnerID string, now time.Time) PartnerAttributes {
	return PartnerAttributes{
		PartnerID:      partnerID,
		Level:          StartLevel,
		Strength:       StartAttribute,
		Vitality:       StartAttribute,
		Agility:        StartAttribute,
		Wisdom:         StartAttribute,
		LastActiveDate: now,
		CreatedDate:    now,
	}
}

// CreditedOn reports whether the partner received a day's rewards on day's
// calendar day. A fresh baseline record has never been credited.
func (a PartnerAttributes) CreditedOn(day time.Time) bool {
	return a.TotalDaysActive > 0 && health.SameDay(day, a.LastActiveDate)
}

// ExperienceToNextLevel returns the experience needed to leave the given level.
func ExperienceToNextLevel(level int) int {
	return level*100 + 50
}

// ExperienceToNextLevel returns the experience needed to leave the current level.
func (a PartnerAttributes) ExperienceToNextLevel() int {
	return ExperienceToNextLevel(a.Level)
}

// CanLevelUp reports whether enough experience has accumulated for a level-up.
func (a PartnerAttributes) CanLevelUp() bool {
	return a.Experience >= a.ExperienceToNextLevel()
}

// ExperiencePercentage is progress through the current level in [0, 1).
func (a PartnerAttributes) ExperiencePercentage() float64 {
	return float64(a.Experience) / float64(a.ExperienceToNextLevel())
}

// TotalPower is the headline combat rating shown for a partner.
func (a PartnerAttributes) TotalPower() int {
	return a.Strength + a.Vitality + a.Agility + a.Wisdom + a.Level*5
}

// addExperience adds exp and resolves every level-up it pays for. Each level
// gained bumps strength, vitality and agility by 1..3 and wisdom by 1..2.
func (a *PartnerAttributes) addExperience(exp int, rng Rand) int {
	a.Experience += exp
	gained := 0
	for a.CanLevelUp() {
		a.Experience -= a.ExperienceToNextLevel()
		a.Level++
		gained++

		a.Strength += 1 + rng.IntN(3)
		a.Vitality += 1 + rng.IntN(3)
		a.Agility += 1 + rng.IntN(3)
		a.Wisdom += 1 + rng.IntN(2)
	}
	return gained
}

// apply adds the rewards. Attribute deltas are applied after leveling and no
// attribute drops below MinAttribute.
func (a *PartnerAttributes) apply(r PartnerRewards, rng Rand) int {
	gained := a.addExperience(r.ExperienceGain, rng)
	a.Strength = max(MinAttribute, a.Strength+r.StrengthGain)
	a.Vitality = max(MinAttribute, a.Vitality+r.VitalityGain)
	a.Agility = max(MinAttribute, a.Agility+r.AgilityGain)
	a.Wisdom = max(MinAttribute, a.Wisdom+r.WisdomGain)
	return gained
}
