package leaderboard

// Board names
const (
	BoardDuelWins   = "duel_wins"
	BoardRaidDamage = "raid_damage"
	BoardFinalBlows = "raid_final_blows"
)

// Boards lists every board that can be queried
var Boards = []string{BoardDuelWins, BoardRaidDamage, BoardFinalBlows}

const (
	keyPrefix    = "leaderboard:"
	DefaultLimit = 10
	MaxLimit     = 100
)

// Error messages
const (
	ErrMsgUnknownBoard   = "unknown leaderboard"
	ErrMsgIncrementScore = "failed to increment leaderboard score"
	ErrMsgReadBoard      = "failed to read leaderboard"
	ErrMsgAddrRequired   = "redis address is required"
)

// Log messages
const (
	LogMsgRecordFailed  = "Failed to record leaderboard score"
	LogMsgPayloadDecode = "Leaderboard event payload could not be decoded"
	LogMsgScoreRecorded = "Leaderboard score recorded"
)
