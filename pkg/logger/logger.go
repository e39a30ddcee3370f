package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	charm "github.com/charmbracelet/log"

	errUtils "github.com/cloudposse/invctl/errors"
)

// TraceLevel is one step more verbose than charmbracelet's DebugLevel.
const TraceLevel charm.Level = charm.DebugLevel - 1

// Re-exported charm levels so callers do not import charm directly.
const (
	DebugLevel = charm.DebugLevel
	InfoLevel  = charm.InfoLevel
	WarnLevel  = charm.WarnLevel
	ErrorLevel = charm.ErrorLevel
	// OffLevel silences every message.
	OffLevel charm.Level = charm.FatalLevel + 1
)

// LogLevel is the configured log level name.
type LogLevel string

const (
	LogLevelOff     LogLevel = "Off"
	LogLevelTrace   LogLevel = "Trace"
	LogLevelDebug   LogLevel = "Debug"
	LogLevelInfo    LogLevel = "Info"
	LogLevelWarning LogLevel = "Warning"
	LogLevelError   LogLevel = "Error"
)

// ParseLogLevel parses a log level name (case-insensitive). An empty string
// yields Warning.
func ParseLogLevel(logLevel string) (LogLevel, error) {
	if logLevel == "" {
		return LogLevelWarning, nil
	}

	for _, level := range []LogLevel{LogLevelOff, LogLevelTrace, LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError} {
		if strings.EqualFold(logLevel, string(level)) {
			return level, nil
		}
	}
	if strings.EqualFold(logLevel, "warn") {
		return LogLevelWarning, nil
	}

	return "", fmt.Errorf("%w '%s'. Supported log levels are Trace, Debug, Info, Warning, Error, Off", errUtils.ErrInvalidLogLevel, logLevel)
}

// CharmLevel converts a LogLevel to the charmbracelet level.
func (l LogLevel) CharmLevel() charm.Level {
	switch l {
	case LogLevelOff:
		return OffLevel
	case LogLevelTrace:
		return TraceLevel
	case LogLevelDebug:
		return DebugLevel
	case LogLevelInfo:
		return InfoLevel
	case LogLevelError:
		return ErrorLevel
	default:
		return WarnLevel
	}
}

// LevelForVerbosity maps the -v count onto a log level.
// Verbosity only ever raises the configured level, never lowers it.
func LevelForVerbosity(configured LogLevel, verbosity int) LogLevel {
	var fromVerbosity LogLevel
	switch {
	case verbosity <= 0:
		return configured
	case verbosity == 1:
		fromVerbosity = LogLevelInfo
	case verbosity == 2:
		fromVerbosity = LogLevelDebug
	default:
		fromVerbosity = LogLevelTrace
	}

	if configured == LogLevelOff || fromVerbosity.CharmLevel() < configured.CharmLevel() {
		return fromVerbosity
	}
	return configured
}

// Logger wraps a charmbracelet logger with a trace level.
type Logger struct {
	*charm.Logger
}

// NewLogger wraps an existing charmbracelet logger.
func NewLogger(l *charm.Logger) *Logger {
	return &Logger{Logger: l}
}

// New creates a Logger writing to stderr without timestamps.
func New() *Logger {
	return NewWithOutput(os.Stderr)
}

// NewWithOutput creates a Logger writing to w.
func NewWithOutput(w io.Writer) *Logger {
	l := charm.NewWithOptions(w, charm.Options{
		ReportTimestamp: false,
		Level:           WarnLevel,
	})
	l.SetStyles(logStyles())
	return NewLogger(l)
}

// Trace logs a message at trace level.
func (l *Logger) Trace(msg interface{}, keyvals ...interface{}) {
	l.Log(TraceLevel, msg, keyvals...)
}

// GetLevelString returns the current level as a lowercase name.
func (l *Logger) GetLevelString() string {
	level := l.GetLevel()
	switch {
	case level <= TraceLevel:
		return "trace"
	case level >= OffLevel:
		return "off"
	default:
		return level.String()
	}
}
