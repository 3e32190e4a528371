package logger

// Accepted LOG_LEVEL and LOG_FORMAT values
const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarn    = "warn"
	LogLevelWarning = "warning"
	LogLevelError   = "error"

	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Base record attributes. ForEnvironment keys its presets on the
// Environment* values.
const (
	DefaultServiceName = "task-arena"
	DefaultVersion     = "dev"

	EnvironmentDev        = "dev"
	EnvironmentProduction = "prod"
	EnvironmentTest       = "test"

	AttrKeyService     = "service"
	AttrKeyVersion     = "version"
	AttrKeyEnvironment = "environment"
	AttrKeyRequestID   = "request_id"
)

// Process lifecycle messages shared by packages without a constants file of
// their own for them
const (
	LogMsgJobNotScheduled   = "Background job not scheduled"
	LogMsgServerFailed      = "HTTP server stopped unexpectedly"
	LogMsgRollbackFailed    = "Rolling back transaction failed"
	LogMsgSweepJobStarted   = "Expiry sweeps scheduled"
	LogMsgShutdownRequested = "Shutdown requested, draining"
)
