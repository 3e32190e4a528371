package formula

// Default reward table
const (
	DefaultXPEasy   = 10
	DefaultXPMedium = 25
	DefaultXPHard   = 50

	DefaultGoldEasy   = 5
	DefaultGoldMedium = 10
	DefaultGoldHard   = 20
)

// Default damage table
const (
	DefaultPvPDamageEasy   = 10
	DefaultPvPDamageMedium = 15
	DefaultPvPDamageHard   = 25

	DefaultRaidDamageEasy   = 10
	DefaultRaidDamageMedium = 15
	DefaultRaidDamageHard   = 25

	DefaultMinMissDamage = 1
)

// Default habit regeneration
const (
	DefaultHabitBaseHeal   = 5
	DefaultStreakHealCap   = 10
	DefaultClericHabitHeal = 10
)

const percent = 100
