// Package progression implements the XP curve, level-ups and class unlocking.
package progression

import (
	"fmt"

	"github.com/osse101/TaskArena_Go/internal/attributes"
	"github.com/osse101/TaskArena_Go/internal/domain"
)

// LevelUpResult describes what an XP grant did to a character
type LevelUpResult struct {
	XPGained      int  `json:"xp_gained"`
	OldLevel      int  `json:"old_level"`
	NewLevel      int  `json:"new_level"`
	LevelsGained  int  `json:"levels_gained"`
	ClassUnlocked bool `json:"class_unlocked"`
}

// LeveledUp reports whether at least one level was gained
func (r LevelUpResult) LeveledUp() bool {
	return r.LevelsGained > 0
}

// XPRequired returns the XP needed to advance from level to level+1
func XPRequired(level int) int {
	if level < 1 {
		level = 1
	}
	return level * level * XPCurveBase
}

// ApplyXP adds XP and cascades level-ups. Each level-up recomputes the max
// pools at the new level and fully restores HP and Mana.
// On return CurrentXP < XPRequired(Level).
func ApplyXP(c domain.Character, amount int, b domain.Bonuses) (domain.Character, LevelUpResult) {
	res := LevelUpResult{OldLevel: c.Level, NewLevel: c.Level}
	if c.Level < domain.StartingLevel {
		c.Level = domain.StartingLevel
	}
	if amount <= 0 {
		res.NewLevel = c.Level
		return c, res
	}

	res.XPGained = amount
	c.CurrentXP += amount
	for c.CurrentXP >= XPRequired(c.Level) {
		c.CurrentXP -= XPRequired(c.Level)
		c.Level++
		res.LevelsGained++

		c.MaxHP, c.MaxMana = attributes.Pools(&c, c.Level, b)
		c.CurrentHP = c.MaxHP
		c.CurrentMana = c.MaxMana
	}

	res.NewLevel = c.Level
	res.ClassUnlocked = res.OldLevel < domain.ClassUnlockLevel && c.Level >= domain.ClassUnlockLevel
	return c, res
}

// ClassUnlocked reports whether the character may choose a class
func ClassUnlocked(c *domain.Character) bool {
	return c.Level >= domain.ClassUnlockLevel
}

// ChooseClass assigns an advanced class. It is allowed once, from the unlock level.
func ChooseClass(c domain.Character, class domain.Class) (domain.Character, error) {
	if !class.IsAdvanced() {
		return c, fmt.Errorf("%w: %q is not a selectable class", domain.ErrInvalidInput, class)
	}
	if !ClassUnlocked(&c) {
		return c, fmt.Errorf("%w: requires level %d, character is level %d", domain.ErrClassLocked, domain.ClassUnlockLevel, c.Level)
	}
	if c.Class != "" && c.Class != domain.ClassApprentice {
		return c, fmt.Errorf("%w: class already chosen (%s)", domain.ErrInvalidTransition, c.Class)
	}
	c.Class = class
	return c, nil
}

// Progress returns the XP earned into the current level and the XP still needed
func Progress(c *domain.Character) (intoLevel, toNext int) {
	return c.CurrentXP, XPRequired(c.Level) - c.CurrentXP
}
