// Package attributes holds the base/effective attribute model and the
// derived HP and Mana pools.
package attributes

import "github.com/osse101/TaskArena_Go/internal/domain"

// Base returns the character's stored attributes
func Base(c *domain.Character) domain.Attributes {
	return c.Attributes
}

// Effective returns base attributes plus equipment bonuses, each clamped at 0
func Effective(c *domain.Character, b domain.Bonuses) domain.Attributes {
	a := c.Attributes
	return domain.Attributes{
		Strength:     nonNegative(a.Strength + b.Strength),
		Intelligence: nonNegative(a.Intelligence + b.Intelligence),
		Constitution: nonNegative(a.Constitution + b.Constitution),
		Perception:   nonNegative(a.Perception + b.Perception),
		Agility:      nonNegative(a.Agility + b.Agility),
		Vitality:     nonNegative(a.Vitality + b.Vitality),
		Endurance:    nonNegative(a.Endurance + b.Endurance),
	}
}

// MaxHP is strictly increasing in both level and constitution
func MaxHP(level, constitution int) int {
	if level < 1 {
		level = 1
	}
	return BaseHP + (level-1)*HPPerLevel + nonNegative(constitution)*HPPerConstitution
}

// MaxMana is strictly increasing in both level and intelligence
func MaxMana(level, intelligence int) int {
	if level < 1 {
		level = 1
	}
	return BaseMana + (level-1)*ManaPerLevel + nonNegative(intelligence)*ManaPerIntelligence
}

// Pools computes the max HP and Mana of a character at the given level,
// including flat hp/mana equipment bonuses.
func Pools(c *domain.Character, level int, b domain.Bonuses) (maxHP, maxMana int) {
	eff := Effective(c, b)
	maxHP = MaxHP(level, eff.Constitution) + b.HP
	maxMana = MaxMana(level, eff.Intelligence) + b.Mana
	if maxHP < MinPool {
		maxHP = MinPool
	}
	if maxMana < MinPool {
		maxMana = MinPool
	}
	return maxHP, maxMana
}

// Refresh recomputes max pools for the current level and clamps the
// current values into range. Current values are never raised.
func Refresh(c domain.Character, b domain.Bonuses) domain.Character {
	c.MaxHP, c.MaxMana = Pools(&c, c.Level, b)
	return Clamp(c)
}

// Clamp enforces 0 <= current <= max for HP and Mana
func Clamp(c domain.Character) domain.Character {
	c.CurrentHP = clamp(c.CurrentHP, 0, c.MaxHP)
	c.CurrentMana = clamp(c.CurrentMana, 0, c.MaxMana)
	return c
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
