package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - Character Operations
const (
	ErrMsgFailedToGetCharacter       = "failed to get character"
	ErrMsgFailedToInsertCharacter    = "failed to insert character"
	ErrMsgFailedToUpdateCharacter    = "failed to update character"
	ErrMsgFailedToInsertTaskEvent    = "failed to insert task event"
	ErrMsgFailedToMarshalEquipment   = "failed to marshal equipment"
	ErrMsgFailedToUnmarshalEquipment = "failed to unmarshal equipment"
)

// Error Messages - Task Operations
const (
	ErrMsgFailedToGetTask = "failed to get task"
)

// Error Messages - Item Operations
const (
	ErrMsgFailedToGetItem            = "failed to get item"
	ErrMsgFailedToGetAllItems        = "failed to get all items"
	ErrMsgFailedToUpsertItem         = "failed to upsert item"
	ErrMsgFailedToMarshalEffects     = "failed to marshal effects"
	ErrMsgFailedToUnmarshalEffects   = "failed to unmarshal effects"
	ErrMsgSyncMetadataNotFound       = "sync metadata not found"
	ErrMsgFailedToGetSyncMetadata    = "failed to get sync metadata"
	ErrMsgFailedToUpsertSyncMetadata = "failed to upsert sync metadata"
)

// Error Messages - Duel Operations
const (
	ErrMsgFailedToInsertDuel     = "failed to insert duel"
	ErrMsgFailedToGetDuel        = "failed to get duel"
	ErrMsgFailedToUpdateDuel     = "failed to update duel"
	ErrMsgFailedToGetDuelTasks   = "failed to get duel tasks"
	ErrMsgFailedToSaveDuelTask   = "failed to save duel task"
	ErrMsgFailedToDeleteDuelTask = "failed to delete duel task"
	ErrMsgFailedToListOpenDuels  = "failed to list open duels"
	ErrMsgOpenDuelExists         = "an open duel already exists between these users"
)

// Error Messages - Raid Operations
const (
	ErrMsgFailedToInsertRaid      = "failed to insert raid"
	ErrMsgFailedToGetRaid         = "failed to get raid"
	ErrMsgFailedToUpdateRaid      = "failed to update raid"
	ErrMsgFailedToGetRaidMembers  = "failed to get raid members"
	ErrMsgFailedToSaveRaidMember  = "failed to save raid member"
	ErrMsgFailedToListActiveRaids = "failed to list active raids"
)
