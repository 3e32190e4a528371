package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Game metric names
const (
	MetricNameTasksCompleted      = "tasks_completed_total"
	MetricNameTasksMissed         = "tasks_missed_total"
	MetricNameXPAwarded           = "xp_awarded_total"
	MetricNameGoldAwarded         = "gold_awarded_total"
	MetricNameLevelUps            = "level_ups_total"
	MetricNameIncapacitations     = "incapacitations_total"
	MetricNameDuelsFinished       = "duels_finished_total"
	MetricNameDuelDamage          = "duel_damage_total"
	MetricNameDuelContests        = "duel_contests_total"
	MetricNameRaidsFinished       = "raids_finished_total"
	MetricNameRaidDamage          = "raid_damage_total"
	MetricNameRaidCounterAttacks  = "raid_counter_attacks_total"
	MetricNameStaleWriteRetries   = "stale_write_retries_total"
	MetricNameSweepDuration       = "sweep_duration_seconds"
	MetricNameUnresolvedEquipment = "unresolved_equipment_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Game metric help text
const (
	HelpTextTasksCompleted      = "Total number of tasks and habits completed"
	HelpTextTasksMissed         = "Total number of missed task penalties applied"
	HelpTextXPAwarded           = "Total XP awarded for completions"
	HelpTextGoldAwarded         = "Total gold awarded for completions"
	HelpTextLevelUps            = "Total number of character level ups"
	HelpTextIncapacitations     = "Total number of characters knocked to zero HP"
	HelpTextDuelsFinished       = "Total number of duels that reached a terminal state"
	HelpTextDuelDamage          = "Total duel damage dealt"
	HelpTextDuelContests        = "Total number of contested duel tasks"
	HelpTextRaidsFinished       = "Total number of raids that reached a terminal state"
	HelpTextRaidDamage          = "Total damage dealt to raid bosses"
	HelpTextRaidCounterAttacks  = "Total number of raid boss counter-attacks"
	HelpTextStaleWriteRetries   = "Total optimistic concurrency conflicts retried"
	HelpTextSweepDuration       = "Duration of background sweeps in seconds"
	HelpTextUnresolvedEquipment = "Total equipped items skipped during stat aggregation"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod     = "method"
	LabelPath       = "path"
	LabelStatus     = "status"
	LabelType       = "type"
	LabelKind       = "kind"
	LabelDifficulty = "difficulty"
	LabelEntity     = "entity"
	LabelSweep      = "sweep"
	LabelReason     = "reason"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgEventPayloadDecode = "Event payload could not be decoded"
	LogMsgMetricsRecorded    = "Metrics recorded for event"
)
