package renderer

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLogger writes human-readable log lines to stderr through zerolog
type DefaultLogger struct {
	log zerolog.Logger
}

// NewDefaultLogger creates an info-level logger on stderr
func NewDefaultLogger() *DefaultLogger {
	return NewLevelLogger(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}, zerolog.InfoLevel)
}

// NewLevelLogger creates a logger writing to w that drops entries below level
func NewLevelLogger(w io.Writer, level zerolog.Level) *DefaultLogger {
	return &DefaultLogger{log: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

// ParseLevel maps a config string such as "debug" or "warn" to a level,
// falling back to info for unknown names
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// Printf logs at info level
func (l *DefaultLogger) Printf(format string, args ...interface{}) {
	l.log.Info().Msgf(strings.TrimRight(format, "\n"), args...)
}

// Warnf logs at warn level
func (l *DefaultLogger) Warnf(format string, args ...interface{}) {
	l.log.Warn().Msgf(strings.TrimRight(format, "\n"), args...)
}

// Debugf logs at debug level
func (l *DefaultLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug().Msgf(strings.TrimRight(format, "\n"), args...)
}

// Zerolog exposes the underlying logger for callers that want structured fields
func (l *DefaultLogger) Zerolog() *zerolog.Logger {
	return &l.log
}
