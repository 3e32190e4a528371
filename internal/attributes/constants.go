package attributes

// Pool formula coefficients
const (
	BaseHP            = 100
	HPPerLevel        = 10
	HPPerConstitution = 5

	BaseMana            = 50
	ManaPerLevel        = 5
	ManaPerIntelligence = 3

	// MinPool keeps a pool above zero when item effects are negative
	MinPool = 1
)
