package equipment

import (
	"time"

	"github.com/google/uuid"
)

// ItemNamespace seeds the name-based UUIDs derived from free-form item ids.
// Changing it re-keys every static catalog entry.
var ItemNamespace = uuid.MustParse("6f1c5a52-3d0e-4c8e-9a51-7d2b4c0e8f11")

// Resolution tuning
const (
	// MaxConcurrentLookups bounds catalog fan-out per loadout
	MaxConcurrentLookups = 4

	// DefaultCacheSize is the number of store items kept in memory
	DefaultCacheSize = 512

	// DefaultCacheTTL is how long a store item stays cached
	DefaultCacheTTL = 10 * time.Minute
)

// Log messages
const (
	LogMsgSkippedEquippedItem = "Skipped equipped item"
	LogMsgCatalogLookupFailed = "Item catalog lookup failed"
)
