package logger

import (
	"log/slog"
	"strings"
)

// Config selects the handler and the attributes stamped on every record
type Config struct {
	Level       string
	Format      string
	ServiceName string
	Version     string
	Environment string
	AddSource   bool
}

// NewConfig builds a Config from explicit values
func NewConfig(level, format, serviceName, version, environment string, addSource bool) Config {
	return Config{
		Level:       level,
		Format:      format,
		ServiceName: serviceName,
		Version:     version,
		Environment: environment,
		AddSource:   addSource,
	}
}

// ForEnvironment returns the preset for env: JSON at info in production,
// text at debug with source locations in development, text at info otherwise.
func ForEnvironment(env string) Config {
	c := Config{
		Level:       LogLevelInfo,
		Format:      LogFormatText,
		ServiceName: DefaultServiceName,
		Version:     DefaultVersion,
		Environment: env,
	}
	switch strings.ToLower(env) {
	case EnvironmentProduction, "production":
		c.Format = LogFormatJSON
		c.Environment = EnvironmentProduction
	case EnvironmentDev, "development", "":
		c.Level = LogLevelDebug
		c.AddSource = true
		c.Environment = EnvironmentDev
	}
	return c
}

// WithOverrides replaces level and format when the caller set them
func (c Config) WithOverrides(level, format string) Config {
	if level != "" {
		c.Level = level
	}
	if format != "" {
		c.Format = format
	}
	return c
}

// LogLevel maps the configured name onto a slog level, defaulting to info
func (c Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn, LogLevelWarning:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

func (c Config) IsJSON() bool {
	return strings.EqualFold(c.Format, LogFormatJSON)
}

// BaseAttributes are attached to the root logger
func (c Config) BaseAttributes() []slog.Attr {
	return []slog.Attr{
		slog.String(AttrKeyService, c.ServiceName),
		slog.String(AttrKeyVersion, c.Version),
		slog.String(AttrKeyEnvironment, c.Environment),
	}
}
