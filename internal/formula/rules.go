package formula

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/osse101/TaskArena_Go/internal/domain"
	"github.com/osse101/TaskArena_Go/internal/validation"
)

// BalanceSchemaPath is resolved from the working directory up to the module root
const BalanceSchemaPath = "configs/schemas/balance.schema.json"

// ClassModifier holds the per-class defense and bonus values
type ClassModifier struct {
	Defense      float64 `yaml:"defense"`
	XPBonusPct   int     `yaml:"xp_bonus_pct"`
	GoldBonusPct int     `yaml:"gold_bonus_pct"`
	HabitHeal    int     `yaml:"habit_heal"`
}

// Rules is the game balance table. Every table is keyed by difficulty or class.
type Rules struct {
	XPRewards        map[domain.Difficulty]int      `yaml:"xp_rewards"`
	GoldRewards      map[domain.Difficulty]int      `yaml:"gold_rewards"`
	DifficultyFactor map[domain.Difficulty]int      `yaml:"difficulty_factor"`
	PvPDamage        map[domain.Difficulty]int      `yaml:"pvp_damage"`
	RaidDamage       map[domain.Difficulty]int      `yaml:"raid_damage"`
	HabitBaseHeal    int                            `yaml:"habit_base_heal"`
	StreakHealCap    int                            `yaml:"streak_heal_cap"`
	MinMissDamage    int                            `yaml:"min_miss_damage"`
	Classes          map[domain.Class]ClassModifier `yaml:"classes"`
}

// DefaultRules returns the built-in balance table
func DefaultRules() Rules {
	return Rules{
		XPRewards: map[domain.Difficulty]int{
			domain.DifficultyEasy:   DefaultXPEasy,
			domain.DifficultyMedium: DefaultXPMedium,
			domain.DifficultyHard:   DefaultXPHard,
		},
		GoldRewards: map[domain.Difficulty]int{
			domain.DifficultyEasy:   DefaultGoldEasy,
			domain.DifficultyMedium: DefaultGoldMedium,
			domain.DifficultyHard:   DefaultGoldHard,
		},
		DifficultyFactor: map[domain.Difficulty]int{
			domain.DifficultyEasy:   1,
			domain.DifficultyMedium: 2,
			domain.DifficultyHard:   3,
		},
		PvPDamage: map[domain.Difficulty]int{
			domain.DifficultyEasy:   DefaultPvPDamageEasy,
			domain.DifficultyMedium: DefaultPvPDamageMedium,
			domain.DifficultyHard:   DefaultPvPDamageHard,
		},
		RaidDamage: map[domain.Difficulty]int{
			domain.DifficultyEasy:   DefaultRaidDamageEasy,
			domain.DifficultyMedium: DefaultRaidDamageMedium,
			domain.DifficultyHard:   DefaultRaidDamageHard,
		},
		HabitBaseHeal: DefaultHabitBaseHeal,
		StreakHealCap: DefaultStreakHealCap,
		MinMissDamage: DefaultMinMissDamage,
		Classes: map[domain.Class]ClassModifier{
			domain.ClassApprentice: {Defense: 1.0},
			domain.ClassWarrior:    {Defense: 1.5},
			domain.ClassCleric:     {Defense: 1.25, HabitHeal: DefaultClericHabitHeal},
			domain.ClassRogue:      {Defense: 1.1, GoldBonusPct: 10},
			domain.ClassMage:       {Defense: 1.0, XPBonusPct: 10},
		},
	}
}

// LoadRules reads a YAML balance file on top of the defaults.
// Unknown keys are rejected by the schema at BalanceSchemaPath. A missing file
// yields the defaults. Keys present in the file replace the
// matching default entry; class entries are replaced as a whole.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return rules, nil
		}
		return rules, fmt.Errorf("reading balance %s: %w", path, err)
	}

	if err := validation.NewSchemaValidator().ValidateYAML(data, BalanceSchemaPath); err != nil {
		return rules, fmt.Errorf("balance %s: %w: %w", path, domain.ErrInvalidInput, err)
	}

	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("parsing balance %s: %w", path, err)
	}

	if err := rules.Validate(); err != nil {
		return rules, fmt.Errorf("balance %s: %w", path, err)
	}
	return rules, nil
}

// Validate checks that every table is complete and every defense is at least 1
func (r Rules) Validate() error {
	tables := map[string]map[domain.Difficulty]int{
		"xp_rewards":        r.XPRewards,
		"gold_rewards":      r.GoldRewards,
		"difficulty_factor": r.DifficultyFactor,
		"pvp_damage":        r.PvPDamage,
		"raid_damage":       r.RaidDamage,
	}
	for name, table := range tables {
		for _, d := range difficulties {
			v, ok := table[d]
			if !ok {
				return fmt.Errorf("%w: %s missing %s", domain.ErrInvalidInput, name, d)
			}
			if v < 0 {
				return fmt.Errorf("%w: %s.%s is negative", domain.ErrInvalidInput, name, d)
			}
		}
	}

	classes := append([]domain.Class{domain.ClassApprentice}, domain.AdvancedClasses...)
	for _, c := range classes {
		mod, ok := r.Classes[c]
		if !ok {
			return fmt.Errorf("%w: classes missing %s", domain.ErrInvalidInput, c)
		}
		if mod.Defense < 1 {
			return fmt.Errorf("%w: class %s defense %.2f below 1", domain.ErrInvalidInput, c, mod.Defense)
		}
	}

	if r.StreakHealCap < 0 || r.HabitBaseHeal < 0 || r.MinMissDamage < 0 {
		return fmt.Errorf("%w: heal and damage floors must be non-negative", domain.ErrInvalidInput)
	}
	return nil
}

var difficulties = []domain.Difficulty{domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard}
