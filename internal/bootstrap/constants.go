package bootstrap

import "time"

// DirPermission is used when creating the dead-letter directory
const DirPermission = 0755

// Service identity attached to every log line
const (
	ServiceName = "taskarena"
)

// Catalog cache sizing for the store-backed item catalog
const (
	CatalogCacheSize = 512
	CatalogCacheTTL  = 10 * time.Minute
)

// Log messages
const (
	LogMsgStarting                   = "Starting TaskArena"
	LogMsgConfigurationLoaded        = "Configuration loaded"
	LogMsgEventSystemInitialized     = "Event system initialized"
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgLeaderboardRecorderReady   = "Leaderboard recorder registered"
	LogMsgRaidHandlerRegistered      = "Raid task handler registered"
	LogMsgSyncingItems               = "Syncing items from JSON config..."
	LogMsgItemsSynced                = "Items synced successfully"
	LogMsgItemsUnchanged             = "Items config unchanged, sync skipped"
	LogMsgBalanceLoaded              = "Balance rules loaded"
	LogMsgVerifierAutoApprove        = "No verifier configured, evidence is auto-approved"
	LogMsgVerifierHTTP               = "Using remote evidence verifier"
	LogMsgLeaderboardRedis           = "Using Redis leaderboard"
	LogMsgLeaderboardMemory          = "Using in-memory leaderboard"
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownWorkers        = "Stopping background sweeps..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgCloseFailed                = "Failed to close resource"
)

// Error messages
const (
	ErrMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	ErrMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
	ErrMsgFailedRegisterMetrics          = "failed to register metrics collector"
	ErrMsgFailedLoadItems                = "failed to load items config"
	ErrMsgInvalidItems                   = "invalid items config"
	ErrMsgFailedSyncItems                = "failed to sync items"
	ErrMsgFailedLoadBalance              = "failed to load balance rules"
)
