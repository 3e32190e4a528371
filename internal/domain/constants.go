package domain

// Character defaults
const (
	// StartingLevel is the level of a newly created character
	StartingLevel = 1

	// ClassUnlockLevel is the level at which an advanced class may be chosen
	ClassUnlockLevel = 10

	// StartingGold is the gold balance of a newly created character
	StartingGold = 0
)

// Name limits
const (
	MaxCharacterNameLength = 32
	MaxBossNameLength      = 64
	MaxContestReasonLength = 500
)
