// Package dialogue produces the short line a partner says about the user's day.
// Lines come from an OpenAI-compatible chat-completions endpoint and fall back
// to a fixed local table whenever that call fails.
package dialogue

import "fmt"

// Style is a partner's conversational personality.
type Style string

const (
	Warrior Style = "warrior" // upbeat and motivating
	Mage    Style = "mage"    // gentle and caring
	Pet     Style = "pet"     // playful companion
	Sage    Style = "sage"    // calm advisor
)

// AllStyles returns every style in display order.
func AllStyles() []Style {
	return []Style{Warrior, Mage, Pet, Sage}
}

// ParseStyle validates a style name.
func ParseStyle(s string) (Style, error) {
	for _, st := range AllStyles() {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown style %q", s)
}

// DisplayName is the style's title in the partner picker.
func (s Style) DisplayName() string {
	switch s {
	case Warrior:
		return "Fired-up Warrior"
	case Mage:
		return "Healing Mage"
	case Pet:
		return "Lively Pet"
	case Sage:
		return "Wise Mentor"
	default:
		return string(s)
	}
}

func systemPrompt(s Style) string {
	switch s {
	case Mage:
		return `You are a gentle, soothing health companion. Personality:
- warm and considerate
- you speak softly, as if looking after a friend
- you pay attention to how the other person feels`
	case Pet:
		return `You are a cute, lively pet companion. Personality:
- playful and sweet without overdoing it
- you speak in a cute voice, like a caring cat or puppy
- you may open with "Meow~" or "Woof~", but not every time`
	case Sage:
		return `You are a wise, mild-mannered health advisor. Personality:
- calm and knowledgeable
- your advice sounds like a kind older friend
- you occasionally share a short piece of life wisdom, naturally`
	default:
		return `You are an energetic, sunny health companion. Personality:
- positive and full of energy
- you speak briefly and encourage the user
- you sound like an enthusiastic friend, not a coach
- you keep exclamation marks to a minimum`
	}
}

func chatSystemPrompt(s Style) string {
	return systemPrompt(s) + `
You are chatting with the user about anything. Reply like a friend in everyday conversation,
care about their feelings and not only their data, and never lecture.`
}
