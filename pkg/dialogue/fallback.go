package dialogue

import "github.com/vitalitypact/vitalitypact/pkg/scoring"

// fallbackLines holds three local lines per style, indexed by health level.
var fallbackLines = map[Style][5][3]string{
	Warrior: {
		scoring.LevelCritical:  {"Your body is your engine. Rest up first!", "This won't do, we need to get your strength back!", "Don't push through it. Rest well and then we fight on!"},
		scoring.LevelWeak:      {"A bit worn out? Take a breather, then we go again!", "Low on energy. How about a walk to recharge?", "Not your best day, but I know you can turn it around!"},
		scoring.LevelNormal:    {"Solid day, keep it up!", "Nice, hold this pace!", "Steady performance, great work!"},
		scoring.LevelGood:      {"Looking strong! Keep charging!", "That's the feeling right there!", "Well played! Hold onto it!"},
		scoring.LevelExcellent: {"Incredible! A perfect score today!", "Flawless! That's how it's done!", "Peak form! I'm proud of you!"},
	},
	Mage: {
		scoring.LevelCritical:  {"Dear, you really need some rest...", "You look so tired. Maybe an early night?", "Your body is sending a warning. Please take care of yourself."},
		scoring.LevelWeak:      {"A little tired today, remember to look after yourself.", "Feeling worn? Have some water and rest a moment.", "You worked hard today. Let yourself relax a bit."},
		scoring.LevelNormal:    {"Today went nicely, keep going.", "You're doing well, let's keep it that way.", "Mm, you were lovely today."},
		scoring.LevelGood:      {"You're in such good shape today, it makes me happy~", "I can feel your energy today.", "Wonderful! You're shining today."},
		scoring.LevelExcellent: {"Wow! Today was amazing! I'm so happy!", "A perfect day! You're incredible!", "So much energy! It feels like you can do anything!"},
	},
	Pet: {
		scoring.LevelCritical:  {"Mew... you look so tired, please rest~", "Woof... please take care of yourself.", "I'm worried about you... sleep early, okay?"},
		scoring.LevelWeak:      {"Meow~ a little tired? Head pats for you~", "Woof woof, let's go for a little walk together?", "You can do it, I believe in you!"},
		scoring.LevelNormal:    {"Meow~ not bad today!", "Woof! You're doing okay!", "Hehe, you're pretty good today~"},
		scoring.LevelGood:      {"Meow meow! You're awesome today!", "Woof woof! So happy!", "Yay! You're in great shape!"},
		scoring.LevelExcellent: {"Meow!! You're amazing!!", "Woof woof!! Perfect score! Love it!", "You're the best! Sending hearts~"},
	},
	Sage: {
		scoring.LevelCritical:  {"Health is the foundation of everything. Please rest.", "Haste makes waste. Recover your strength first.", "Health is the greatest wealth. Turn in early tonight."},
		scoring.LevelWeak:      {"Balance work and rest and you will go further.", "Rest is how we move forward better.", "You are a little short today. Adjust your rhythm."},
		scoring.LevelNormal:    {"Moderation is a strength of its own.", "Keep this rhythm and progress step by step.", "A steady day is a good day too."},
		scoring.LevelGood:      {"A fine state. Keep it up.", "Today's effort is tomorrow's harvest.", "Good habits are taking root. Well done."},
		scoring.LevelExcellent: {"Outstanding! This is the reward of discipline.", "Today you showed the best of yourself.", "Excellent! Persistence has no limit."},
	},
}

// Fallback picks one of the local lines for style and level. Unknown styles
// use the warrior lines and out-of-range levels use the nearest tier.
func Fallback(style Style, level scoring.HealthLevel, rng Rand) string {
	lines, ok := fallbackLines[style]
	if !ok {
		lines = fallbackLines[Warrior]
	}
	switch {
	case level < scoring.LevelCritical:
		level = scoring.LevelCritical
	case level > scoring.LevelExcellent:
		level = scoring.LevelExcellent
	}
	cell := lines[level]
	return cell[rng.IntN(len(cell))]
}

// FallbackLines returns the local lines for style and level.
func FallbackLines(style Style, level scoring.HealthLevel) []string {
	lines, ok := fallbackLines[style]
	if !ok || !level.Valid() {
		return nil
	}
	cell := lines[level]
	return cell[:]
}
