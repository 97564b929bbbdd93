package progression

import "github.com/vitalitypact/vitalitypact/pkg/health"

// PartnerRewards are the deltas one day of metrics grants a partner.
// Vitality can be negative.
type PartnerRewards struct {
	ExperienceGain int `json:"experience_gain"`
	StrengthGain   int `json:"strength_gain"`
	VitalityGain   int `json:"vitality_gain"`
	AgilityGain    int `json:"agility_gain"`
	WisdomGain     int `json:"wisdom_gain"`
}

// HasAnyReward reports whether any delta is positive.
func (r PartnerRewards) HasAnyReward() bool {
	return r.ExperienceGain > 0 || r.StrengthGain > 0 || r.VitalityGain > 0 ||
		r.AgilityGain > 0 || r.WisdomGain > 0
}

// RewardBand grants Experience and Attribute to values >= Min.
type RewardBand struct {
	Min        float64 `yaml:"min" json:"min"`
	Experience int     `yaml:"experience" json:"experience"`
	Attribute  int     `yaml:"attribute" json:"attribute"`
}

func matchReward(bands []RewardBand, v float64) (RewardBand, bool) {
	for _, b := range bands {
		if v >= b.Min {
			return b, true
		}
	}
	return RewardBand{}, false
}

// RewardRules are the reward bands per dimension, each ordered high to low.
type RewardRules struct {
	Steps    []RewardBand
	Sleep    []RewardBand
	Exercise []RewardBand
	Overall  []RewardBand

	// Sleep below SleepPenaltyBelow hours costs SleepPenalty vitality.
	// Evaluated independently of the Sleep bands.
	SleepPenaltyBelow float64
	SleepPenalty      int
}

// DefaultRewardRules returns the standard reward bands.
func DefaultRewardRules() RewardRules {
	return RewardRules{
		Steps: []RewardBand{
			{Min: 10000, Experience: 30, Attribute: 2},
			{Min: 7000, Experience: 20, Attribute: 1},
			{Min: 5000, Experience: 10},
		},
		Sleep: []RewardBand{
			{Min: 8, Experience: 30, Attribute: 2},
			{Min: 7, Experience: 20, Attribute: 1},
			{Min: 6, Experience: 10},
		},
		Exercise: []RewardBand{
			{Min: 60, Experience: 30, Attribute: 2},
			{Min: 30, Experience: 20, Attribute: 1},
			{Min: 15, Experience: 10},
		},
		Overall: []RewardBand{
			{Min: 80, Experience: 20, Attribute: 2},
			{Min: 60, Attribute: 1},
		},
		SleepPenaltyBelow: 5,
		SleepPenalty:      1,
	}
}

// Calculate derives the rewards for one day of metrics and its overall score.
func (rr RewardRules) Calculate(m health.DailyMetrics, overallScore int) PartnerRewards {
	var r PartnerRewards

	if b, ok := matchReward(rr.Steps, float64(m.Steps)); ok {
		r.ExperienceGain += b.Experience
		r.StrengthGain += b.Attribute
	}
	if b, ok := matchReward(rr.Sleep, m.SleepHours); ok {
		r.ExperienceGain += b.Experience
		r.VitalityGain += b.Attribute
	}
	if m.SleepHours < rr.SleepPenaltyBelow {
		r.VitalityGain -= rr.SleepPenalty
	}
	if b, ok := matchReward(rr.Exercise, float64(m.ExerciseMinutes)); ok {
		r.ExperienceGain += b.Experience
		r.AgilityGain += b.Attribute
	}
	if b, ok := matchReward(rr.Overall, float64(overallScore)); ok {
		r.ExperienceGain += b.Experience
		r.WisdomGain += b.Attribute
	}
	return r
}

// CalculateRewards applies the default reward rules.
func CalculateRewards(m health.DailyMetrics, overallScore int) PartnerRewards {
	return DefaultRewardRules().Calculate(m, overallScore)
}
