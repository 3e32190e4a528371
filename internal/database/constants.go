package database

import "time"

// Database Connection Pool Constants
const (
	// DefaultMinConnections is the minimum number of connections to maintain in the pool
	DefaultMinConnections = 2

	// DefaultMaxConnIdleTime closes connections idle for longer than this
	DefaultMaxConnIdleTime = 5 * time.Minute

	// DefaultMaxConnLifetime recycles connections after this long
	DefaultMaxConnLifetime = time.Hour

	// ApplicationName shows up in pg_stat_activity unless the DSN sets its own
	ApplicationName     = "taskarena"
	RuntimeParamAppName = "application_name"
)

// Migration constants
const (
	// GooseDialect is the goose dialect for PostgreSQL
	GooseDialect = "postgres"

	// SQLDriverName is the database/sql driver registered by pgx/stdlib
	SQLDriverName = "pgx"
)

// Error Messages - Database Operations
const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
	ErrMsgFailedToOpenMigrationDB = "failed to open sql connection for migrations"
	ErrMsgFailedToSetDialect      = "failed to set goose dialect"
	ErrMsgFailedToRunMigrations   = "failed to run migrations"
)

// Log Messages
const (
	LogMsgSuccessfullyConnectedToDatabase = "Successfully connected to the database"
	LogMsgMigrationsApplied               = "Database migrations applied"
)
