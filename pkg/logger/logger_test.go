package logger

import (
	"bytes"
	"testing"

	charm "github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/cloudposse/invctl/errors"
)

func TestTraceLevel_RelativeToDebug(t *testing.T) {
	assert.Equal(t, charm.DebugLevel-1, TraceLevel)
	assert.Greater(t, int(OffLevel), int(charm.FatalLevel))
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
		hasError bool
	}{
		{"Trace", LogLevelTrace, false},
		{"debug", LogLevelDebug, false},
		{"Info", LogLevelInfo, false},
		{"Warning", LogLevelWarning, false},
		{"warn", LogLevelWarning, false},
		{"Error", LogLevelError, false},
		{"Off", LogLevelOff, false},
		{"", LogLevelWarning, false},
		{"Invalid", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLogLevel(tt.input)
			if tt.hasError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errUtils.ErrInvalidLogLevel))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestLevelForVerbosity(t *testing.T) {
	tests := []struct {
		name       string
		configured LogLevel
		verbosity  int
		expected   LogLevel
	}{
		{"no verbosity keeps configured", LogLevelWarning, 0, LogLevelWarning},
		{"-v raises to info", LogLevelWarning, 1, LogLevelInfo},
		{"-vv raises to debug", LogLevelWarning, 2, LogLevelDebug},
		{"-vvv raises to trace", LogLevelWarning, 3, LogLevelTrace},
		{"-vvvv stays at trace", LogLevelInfo, 4, LogLevelTrace},
		{"never lowers a more verbose config", LogLevelDebug, 1, LogLevelDebug},
		{"off is overridden by -v", LogLevelOff, 1, LogLevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LevelForVerbosity(tt.configured, tt.verbosity))
		})
	}
}

func TestLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput(&buf)

	l.Trace("hidden at warn")
	assert.Empty(t, buf.String())

	l.SetLevel(TraceLevel)
	l.Trace("test trace message", "source", "hosts.ini")
	assert.Contains(t, buf.String(), "test trace message")
	assert.Contains(t, buf.String(), "hosts.ini")
}

func TestLogger_OffSilencesErrors(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput(&buf)
	l.SetLevel(LogLevelOff.CharmLevel())

	l.Error("should not appear")

	assert.Empty(t, buf.String())
}

func TestLogger_GetLevelString(t *testing.T) {
	l := New()

	l.SetLevel(TraceLevel)
	assert.Equal(t, "trace", l.GetLevelString())

	l.SetLevel(DebugLevel)
	assert.Equal(t, "debug", l.GetLevelString())

	l.SetLevel(OffLevel)
	assert.Equal(t, "off", l.GetLevelString())
}

func TestPackageLevelFunctions(t *testing.T) {
	oldLogger := Default()
	defer SetDefault(oldLogger)

	var buf bytes.Buffer
	testLogger := NewWithOutput(&buf)
	testLogger.SetLevel(TraceLevel)
	SetDefault(testLogger)

	Trace("package level trace")
	Debug("package level debug")
	Info("package level info")
	Warn("package level warn")
	Error("package level error")

	output := buf.String()
	for _, msg := range []string{"trace", "debug", "info", "warn", "error"} {
		assert.Contains(t, output, "package level "+msg)
	}
}

func TestSetDefault_IgnoresNil(t *testing.T) {
	current := Default()
	SetDefault(nil)
	assert.Same(t, current, Default())
}
