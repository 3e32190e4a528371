package bootstrap

import (
	"log/slog"

	"github.com/osse101/TaskArena_Go/internal/config"
	"github.com/osse101/TaskArena_Go/internal/handler"
	"github.com/osse101/TaskArena_Go/internal/logger"
)

// SetupLogger installs the process-wide slog logger: the environment preset
// with the configured level and format on top.
func SetupLogger(cfg *config.Config) *slog.Logger {
	lc := logger.ForEnvironment(cfg.Environment).WithOverrides(cfg.LogLevel, cfg.LogFormat)
	lc.ServiceName = ServiceName
	lc.Version = handler.Version
	l := logger.InitLogger(lc)

	l.Info(LogMsgStarting,
		"environment", cfg.Environment,
		"storage", cfg.Storage,
		"log_level", cfg.LogLevel,
		"log_format", cfg.LogFormat)
	l.Debug(LogMsgConfigurationLoaded,
		"db_host", cfg.DBHost,
		"db_port", cfg.DBPort,
		"db_name", cfg.DBName,
		"port", cfg.Port,
		"sweep_interval", cfg.SweepInterval)

	return l
}
