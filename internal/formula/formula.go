// Package formula converts task outcomes into HP, XP and gold deltas.
// Every function here is pure so that any applied value can be re-derived
// later for audits and contest resolution.
package formula

import (
	"math"

	"github.com/osse101/TaskArena_Go/internal/domain"
)

// Reward is the XP and gold granted for a completion
type Reward struct {
	XP   int `json:"xp"`
	Gold int `json:"gold"`
}

// Engine evaluates formulas against a balance table
type Engine struct {
	rules Rules
}

// NewEngine creates an Engine over the given rules
func NewEngine(rules Rules) *Engine {
	return &Engine{rules: rules}
}

// Rules returns the balance table in use
func (e *Engine) Rules() Rules {
	return e.rules
}

// Known reports whether the difficulty exists in the reward table
func (e *Engine) Known(d domain.Difficulty) bool {
	_, ok := e.rules.XPRewards[d]
	return ok
}

// Class returns the modifiers of a class. Unknown classes get Apprentice values.
func (e *Engine) Class(c domain.Class) ClassModifier {
	if mod, ok := e.rules.Classes[c]; ok {
		return mod
	}
	return e.rules.Classes[domain.ClassApprentice]
}

// ClassDefense returns the damage divisor of a class, never below 1
func (e *Engine) ClassDefense(c domain.Class) float64 {
	def := e.Class(c).Defense
	if def < 1 {
		return 1
	}
	return def
}

// CompletionReward computes XP and gold for completing a task of the given
// difficulty. Equipment and class percentage bonuses are added together.
func (e *Engine) CompletionReward(d domain.Difficulty, class domain.Class, b domain.Bonuses) Reward {
	mod := e.Class(class)
	return Reward{
		XP:   scale(e.rules.XPRewards[d], b.XPBonus+mod.XPBonusPct),
		Gold: scale(e.rules.GoldRewards[d], b.GoldBonus+mod.GoldBonusPct),
	}
}

// HabitHeal returns the HP after completing a habit with the given streak
func (e *Engine) HabitHeal(currentHP, maxHP, streak int, class domain.Class) int {
	if streak < 0 {
		streak = 0
	}
	if streak > e.rules.StreakHealCap {
		streak = e.rules.StreakHealCap
	}
	healed := currentHP + e.rules.HabitBaseHeal + streak + e.Class(class).HabitHeal
	if healed > maxHP {
		return maxHP
	}
	if healed < 0 {
		return 0
	}
	return healed
}

// MissDamage computes the penalty for missing a task deadline:
// floor(level * difficultyFactor / classDefense), at least MinMissDamage.
func (e *Engine) MissDamage(level int, d domain.Difficulty, class domain.Class) int {
	if level < 1 {
		level = 1
	}
	raw := float64(level*e.rules.DifficultyFactor[d]) / e.ClassDefense(class)
	dmg := int(math.Floor(raw))
	if dmg < e.rules.MinMissDamage {
		return e.rules.MinMissDamage
	}
	return dmg
}

// PvPDamage is the flat, level-independent damage of a duel task completion
func (e *Engine) PvPDamage(d domain.Difficulty) int {
	return e.rules.PvPDamage[d]
}

// RaidDamage is the boss damage of a task completion plus equipment damage
func (e *Engine) RaidDamage(d domain.Difficulty, b domain.Bonuses) int {
	dmg := e.rules.RaidDamage[d] + b.Damage
	if dmg < 0 {
		return 0
	}
	return dmg
}

// CounterAttackDamage mitigates a boss attack by the member's class defense
func (e *Engine) CounterAttackDamage(bossDamage int, class domain.Class) int {
	if bossDamage <= 0 {
		return 0
	}
	return int(math.Floor(float64(bossDamage) / e.ClassDefense(class)))
}

// ApplyDamage subtracts dmg from the character's HP, flooring at 0
func ApplyDamage(c domain.Character, dmg int) domain.Character {
	if dmg < 0 {
		dmg = 0
	}
	c.CurrentHP -= dmg
	if c.CurrentHP < 0 {
		c.CurrentHP = 0
	}
	if c.CurrentHP > c.MaxHP {
		c.CurrentHP = c.MaxHP
	}
	return c
}

// scale applies a percentage bonus with integer arithmetic, flooring the result
func scale(base, bonusPct int) int {
	factor := percent + bonusPct
	if factor < 0 {
		factor = 0
	}
	return base * factor / percent
}
