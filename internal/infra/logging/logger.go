package logging

import (
	"os"

	"github.com/rs/zerolog"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// logger writes JSON lines. Stdout stays free for progress output, so the
// default sink is stderr until InitLogger points it at the rotated file.
var logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

// InitLogger configures the global logger to write to a rotating log file.
// Unknown levels fall back to info.
func InitLogger(file string, maxSizeMB, maxBackups, maxAgeDays int, compress bool, level string) {
	writer := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   compress,
	}
	logger = zerolog.New(writer).With().Timestamp().Logger().Level(parseLevel(level))
}

// SetLogLevel changes the level of the active logger.
func SetLogLevel(level string) {
	logger = logger.Level(parseLevel(level))
}

// SetLoggerForTest replaces the global logger. Tests only.
func SetLoggerForTest(l zerolog.Logger) {
	logger = l
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, kv ...interface{}) {
	emit(logger.Debug(), msg, kv)
}

// Info logs an info message with optional key-value pairs.
func Info(msg string, kv ...interface{}) {
	emit(logger.Info(), msg, kv)
}

// Warn logs a warning with optional key-value pairs.
func Warn(msg string, kv ...interface{}) {
	emit(logger.Warn(), msg, kv)
}

// Error logs an error with optional key-value pairs.
func Error(msg string, kv ...interface{}) {
	emit(logger.Error(), msg, kv)
}

func emit(e *zerolog.Event, msg string, kv []interface{}) {
	if len(kv) > 0 {
		e = e.Fields(kv)
	}
	e.Msg(msg)
}
