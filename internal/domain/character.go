package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Class is a character's combat class. Every character starts as an
// Apprentice and may pick one of the advanced classes once unlocked.
type Class string

const (
	ClassApprentice Class = "apprentice"
	ClassWarrior    Class = "warrior"
	ClassMage       Class = "mage"
	ClassRogue      Class = "rogue"
	ClassCleric     Class = "cleric"
)

// AdvancedClasses lists the classes a character may choose at the unlock level
var AdvancedClasses = []Class{ClassWarrior, ClassMage, ClassRogue, ClassCleric}

// IsAdvanced reports whether c is one of the selectable advanced classes
func (c Class) IsAdvanced() bool {
	for _, ac := range AdvancedClasses {
		if c == ac {
			return true
		}
	}
	return false
}

// ParseClass converts user input into a Class
func ParseClass(s string) (Class, bool) {
	c := Class(strings.ToLower(strings.TrimSpace(s)))
	if c == ClassApprentice || c.IsAdvanced() {
		return c, true
	}
	return "", false
}

// Attributes holds the seven base character stats
type Attributes struct {
	Strength     int `json:"strength" validate:"min=0,max=1000"`
	Intelligence int `json:"intelligence" validate:"min=0,max=1000"`
	Constitution int `json:"constitution" validate:"min=0,max=1000"`
	Perception   int `json:"perception" validate:"min=0,max=1000"`
	Agility      int `json:"agility" validate:"min=0,max=1000"`
	Vitality     int `json:"vitality" validate:"min=0,max=1000"`
	Endurance    int `json:"endurance" validate:"min=0,max=1000"`
}

// Character is a player's RPG avatar.
// CurrentHP is always within [0, MaxHP]; zero HP means incapacitated.
type Character struct {
	ID          uuid.UUID  `json:"id"`
	UserID      string     `json:"user_id"`
	Name        string     `json:"name"`
	Attributes  Attributes `json:"attributes"`
	Level       int        `json:"level"`
	CurrentXP   int        `json:"current_xp"`
	CurrentHP   int        `json:"current_hp"`
	MaxHP       int        `json:"max_hp"`
	CurrentMana int        `json:"current_mana"`
	MaxMana     int        `json:"max_mana"`
	Class       Class      `json:"class"`
	Gold        int        `json:"gold"`
	Diamonds    int        `json:"diamonds"`
	Equipment   Loadout    `json:"equipment"`
	Version     int64      `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsIncapacitated reports whether the character has been knocked out
func (c *Character) IsIncapacitated() bool {
	return c.CurrentHP <= 0
}

// Clone returns a copy that does not share the equipment map
func (c Character) Clone() Character {
	out := c
	if c.Equipment != nil {
		out.Equipment = make(Loadout, len(c.Equipment))
		for slot, id := range c.Equipment {
			out.Equipment[slot] = id
		}
	}
	return out
}

// CharacterSheet is the read model of a character with its equipment resolved
type CharacterSheet struct {
	Character Character          `json:"character"`
	Bonuses   Bonuses            `json:"bonuses"`
	Effective Attributes         `json:"effective_attributes"`
	Equipped  []EquippedItemInfo `json:"equipped"`
	Skipped   []SkippedItem      `json:"skipped,omitempty"`
	XPToNext  int                `json:"xp_to_next"`
	CanChoose bool               `json:"can_choose_class"`
}

// TaskEventKind classifies a task event applied to a character
type TaskEventKind string

const (
	TaskEventCompleted      TaskEventKind = "task_completed"
	TaskEventMissed         TaskEventKind = "task_missed"
	TaskEventHabitCompleted TaskEventKind = "habit_completed"
	TaskEventRevived        TaskEventKind = "revived"
)

// TaskEvent is the idempotency record for a task/habit outcome applied to a character.
// Key is unique per character so that an outcome is applied at most once.
type TaskEvent struct {
	UserID     string        `json:"user_id"`
	TaskID     string        `json:"task_id"`
	Kind       TaskEventKind `json:"kind"`
	Key        string        `json:"key"`
	HPDelta    int           `json:"hp_delta"`
	XPDelta    int           `json:"xp_delta"`
	GoldDelta  int           `json:"gold_delta"`
	OccurredAt time.Time     `json:"occurred_at"`
}
