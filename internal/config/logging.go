package config

import (
	"git.home.luguber.info/inful/readmegen/internal/foundation/normalization"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = normalization.NewNormalizer("log level", map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

func NormalizeLogLevel(raw string) LogLevel {
	return logLevelNormalizer.Normalize(raw)
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormatNormalizer = normalization.NewNormalizer("log format", map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

func NormalizeLogFormat(raw string) LogFormat {
	return logFormatNormalizer.Normalize(raw)
}

// MissingPolicy is how the engine treats unresolved references.
type MissingPolicy string

const (
	MissingIgnore MissingPolicy = "ignore"
	MissingZero   MissingPolicy = "zero"
	MissingError  MissingPolicy = "error"
)

var missingIncludeNormalizer = normalization.NewNormalizer("engine.missing_include", map[string]MissingPolicy{
	"ignore": MissingIgnore,
	"error":  MissingError,
}, MissingIgnore)

var missingDataNormalizer = normalization.NewNormalizer("engine.missing_data", map[string]MissingPolicy{
	"zero":  MissingZero,
	"error": MissingError,
}, MissingZero)
