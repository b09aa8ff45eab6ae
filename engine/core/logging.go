package core

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// LogLevel is the minimum severity the engine logger reports.
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

var once sync.Once

// Logger is the engine logger. It also serves as the diagnostics sink
// handed to the image loader.
type Logger struct {
	*log.Logger
}

var singleton *Logger

// NewLogger builds a logger writing to w with the engine's formatting.
func NewLogger(w io.Writer, prefix string) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          prefix,
	})
	l.SetLevel(log.DebugLevel)
	return &Logger{l}
}

func getLogger() *Logger {
	if singleton == nil {
		once.Do(
			func() {
				singleton = NewLogger(os.Stderr, "Anima 🖼️ ")
			})
	}
	return singleton
}

// DefaultLogger returns the process-wide engine logger.
func DefaultLogger() *Logger {
	return getLogger()
}

// SetLogLevel changes the level of the process-wide logger. Unknown
// levels are reported and leave the current level untouched.
func SetLogLevel(level LogLevel) error {
	l, err := log.ParseLevel(string(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	getLogger().SetLevel(l)
	return nil
}

// Warn reports a non-fatal condition.
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.Logger.Warnf(msg, args...)
}

// Error reports a failure detected at a boundary; context names the
// operation that failed.
func (l *Logger) Error(context, msg string, args ...interface{}) {
	l.Logger.With("context", context).Errorf(msg, args...)
}

func LogDebug(msg string, args ...interface{}) {
	getLogger().Debugf(msg, args...)
}

func LogInfo(msg string, args ...interface{}) {
	getLogger().Infof(msg, args...)
}

func LogWarn(msg string, args ...interface{}) {
	getLogger().Warnf(msg, args...)
}

func LogError(msg string, args ...interface{}) {
	getLogger().Errorf(msg, args...)
}

func LogFatal(msg string, args ...interface{}) {
	getLogger().Fatalf(msg, args...)
}
