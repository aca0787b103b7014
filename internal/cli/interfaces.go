package cli

import (
	"github.com/mrz1836/hdkit/internal/config"
	"github.com/mrz1836/hdkit/internal/engine"
	"github.com/mrz1836/hdkit/internal/output"
)

// Compile-time interface checks.
var (
	_ ConfigProvider  = (*config.Config)(nil)
	_ LogWriter       = (*config.Logger)(nil)
	_ FormatProvider  = (*output.Formatter)(nil)
	_ engine.Logger   = (*config.Logger)(nil)
	_ engine.Computer = (*engine.Engine)(nil)
)

// ConfigProvider provides read access to configuration values.
type ConfigProvider interface {
	GetHome() string
	GetLoggingLevel() string
	GetLoggingFile() string
	GetOutputFormat() string
	IsVerbose() bool
}

// LogWriter provides logging capabilities.
type LogWriter interface {
	Debug(format string, args ...any)
	Error(format string, args ...any)
	Close() error
}

// FormatProvider provides output format information.
type FormatProvider interface {
	Format() output.Format
}
