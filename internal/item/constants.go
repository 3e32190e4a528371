package item

// Catalog location. ConfigFileName doubles as the sync_metadata key.
const (
	ConfigFileName    = "items.json"
	DefaultConfigPath = "configs/items/items.json"
)

const (
	ErrMsgReadConfigFileFailed   = "reading item catalog: %w"
	ErrMsgParseConfigFailed      = "parsing item catalog: %w"
	ErrMsgStatConfigFileFailed   = "stat item catalog: %w"
	ErrMsgReadForHashFailed      = "hashing item catalog: %w"
	ErrMsgCheckFileChangeFailed  = "comparing catalog with last sync: %w"
	ErrMsgGetExistingItemsFailed = "listing stored items: %w"
	ErrMsgUpsertItemFailed       = "storing item %q: %w"

	ErrMsgConfigNil      = "catalog is nil"
	ErrMsgNoItemsDefined = "catalog lists no items"
)

// Catalog validation. Each wraps ErrInvalidConfig.
const (
	ErrFmtItemAtIndexEmpty    = "%w: entry %d has an empty key"
	ErrFmtItemHasEmptyName    = "%w: %q has an empty name"
	ErrFmtItemUnknownType     = "%w: %q has unknown type %q"
	ErrFmtItemUnknownRarity   = "%w: %q has unknown rarity %q"
	ErrFmtItemUnknownCurrency = "%w: %q has unknown currency %q"
	ErrFmtItemNegativePrice   = "%w: %q has a negative price"
)

const (
	LogMsgConfigUnchanged      = "Item catalog unchanged since last sync"
	LogMsgSyncCompleted        = "Item catalog synced"
	LogMsgUpdatedItem          = "Updated item"
	LogMsgInsertedItem         = "Inserted item"
	LogMsgUpdateMetadataFailed = "Recording catalog sync metadata failed"
	LogMsgUnknownEffect        = "Item declares an effect outside the bonus set"
)
