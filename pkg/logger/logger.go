package logger

import (
	"io"

	"github.com/rs/zerolog"
)

var log = zerolog.Nop()

// Init initializes the global logger with the specified level,
// writing to w. level can be: "debug", "info", "warn", "error".
// The terminal UI owns stdout, so callers normally pass a log file.
func Init(level string, w io.Writer) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	log = zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// --- Convenience functions ---

func Debug() *zerolog.Event { return log.Debug() }
func Info() *zerolog.Event  { return log.Info() }
func Warn() *zerolog.Event  { return log.Warn() }
func Error() *zerolog.Event { return log.Error() }

// Get returns the underlying zerolog.Logger for advanced usage.
func Get() zerolog.Logger {
	return log
}
