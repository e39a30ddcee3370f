package errors

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestDefaultFormatterConfig(t *testing.T) {
	config := DefaultFormatterConfig()

	assert.False(t, config.Verbose)
	assert.Equal(t, 80, config.MaxLineLength)
	assert.Equal(t, "auto", config.Color)
}

func TestFormat_NilError(t *testing.T) {
	assert.Empty(t, Format(nil, DefaultFormatterConfig()))
}

func TestFormat_SimpleError(t *testing.T) {
	config := DefaultFormatterConfig()
	config.Color = "never"

	result := Format(errors.New("test error"), config)

	assert.Equal(t, "ERROR! test error", result)
}

func TestFormat_ErrorWithHints(t *testing.T) {
	err := Build(errors.New("unable to parse hosts")).
		WithHint("check the INI syntax").
		WithHintf("line %d", 7).
		Err()

	config := DefaultFormatterConfig()
	config.Color = "never"
	result := Format(err, config)

	assert.Contains(t, result, "unable to parse hosts")
	assert.Contains(t, result, "hint: check the INI syntax")
	assert.Contains(t, result, "hint: line 7")
	assert.Equal(t, 2, strings.Count(result, "hint:"))
}

func TestFormat_LongErrorMessageIsWrapped(t *testing.T) {
	longMsg := strings.Repeat("inventory source could not be parsed ", 5)
	config := DefaultFormatterConfig()
	config.Color = "never"
	config.MaxLineLength = 40

	result := Format(errors.New(longMsg), config)

	for _, line := range strings.Split(result, "\n") {
		assert.LessOrEqual(t, len(line), 40)
	}
}

func TestFormat_VerboseMode(t *testing.T) {
	err := Build(errors.New("test error")).
		WithContext("source", "hosts.ini").
		Err()

	config := DefaultFormatterConfig()
	config.Color = "never"
	config.Verbose = true

	result := Format(err, config)

	assert.Contains(t, result, "test error")
	assert.Contains(t, result, "source")
	assert.Contains(t, result, "hosts.ini")
	assert.Greater(t, len(result), len("ERROR! test error"))
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, "a b\nc d", wrapText("a b c d", 3))
	assert.Equal(t, "single", wrapText("single", 0))
}

func TestBuild_ContextAndSentinel(t *testing.T) {
	sentinel := errors.New("sentinel")
	err := Build(errors.New("base")).
		WithSentinel(sentinel).
		WithExitCode(7).
		Err()

	assert.True(t, errors.Is(err, sentinel))
	assert.Equal(t, 7, GetExitCode(err))
	assert.Nil(t, Build(nil).WithHint("x").Err())
}

func TestBuild_WithCause(t *testing.T) {
	cause := errors.New("line 3: unbalanced quote")
	err := Build(ErrInventoryParse).WithCause(cause).Err()

	assert.True(t, errors.Is(err, ErrInventoryParse))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "failed to parse inventory source: line 3: unbalanced quote", err.Error())
}
