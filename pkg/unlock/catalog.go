// Package unlock tracks which partner characters a user has unlocked with
// earned currency.
package unlock

import "github.com/vitalitypact/vitalitypact/pkg/dialogue"

// Category groups characters by art style.
type Category string

const (
	CategoryClassic Category = "classic"
	CategoryAnime   Category = "anime"
	CategoryCute    Category = "cute"
	CategoryPixel   Category = "pixel"
)

// Character is one selectable partner. A zero UnlockCost means free.
type Character struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Category    Category       `json:"category" yaml:"category"`
	Style       dialogue.Style `json:"style" yaml:"style"`
	UnlockCost  int            `json:"unlock_cost" yaml:"unlock_cost"`
}

// Free reports whether the character needs no unlock.
func (c Character) Free() bool { return c.UnlockCost == 0 }

// Catalog is an ordered list of characters.
type Catalog []Character

// DefaultCatalog returns the built-in characters: one free starter per
// dialogue style followed by the purchasable characters.
func DefaultCatalog() Catalog {
	return Catalog{
		{ID: "warrior", Name: "Warrior", Description: "A fired-up partner who cheers you forward", Category: CategoryClassic, Style: dialogue.Warrior},
		{ID: "mage", Name: "Mage", Description: "A gentle healer who keeps you company", Category: CategoryClassic, Style: dialogue.Mage},
		{ID: "pet", Name: "Pet", Description: "A playful pet who brightens your mood", Category: CategoryClassic, Style: dialogue.Pet},
		{ID: "sage", Name: "Sage", Description: "A calm mentor with practical advice", Category: CategoryClassic, Style: dialogue.Sage},

		{ID: "fox", Name: "Fluffy the Fox", Description: "A warm little fox who comforts you with a soft tail", Category: CategoryCute, Style: dialogue.Pet, UnlockCost: 500},
		{ID: "girl_genki", Name: "Sunny", Description: "An energetic girl whose enthusiasm is contagious", Category: CategoryAnime, Style: dialogue.Warrior, UnlockCost: 1000},
		{ID: "elf", Name: "Luna the Forest Elf", Description: "A forest elf who guards you with the power of nature", Category: CategoryAnime, Style: dialogue.Mage, UnlockCost: 1500},
		{ID: "owl", Name: "Oro the Wise", Description: "A well-read owl with thoughtful advice", Category: CategoryCute, Style: dialogue.Sage, UnlockCost: 800},
		{ID: "pixel_hero", Name: "Pixel Hero", Description: "A retro pixel hero ready for adventure", Category: CategoryPixel, Style: dialogue.Warrior, UnlockCost: 600},
		{ID: "bear", Name: "Cuddle Bear", Description: "A soft bear always ready with a warm hug", Category: CategoryCute, Style: dialogue.Mage, UnlockCost: 700},
	}
}

// Find returns the character with id.
func (c Catalog) Find(id string) (Character, bool) {
	for _, ch := range c {
		if ch.ID == id {
			return ch, true
		}
	}
	return Character{}, false
}
