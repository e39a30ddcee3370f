package errors

import (
	"github.com/cockroachdb/errors"
)

// exitCoder wraps an error and specifies an exit code.
type exitCoder struct {
	cause error
	code  int
}

func (e *exitCoder) Error() string {
	return e.cause.Error()
}

func (e *exitCoder) Cause() error {
	return e.cause
}

func (e *exitCoder) Unwrap() error {
	return e.cause
}

// ExitCode returns the exit code.
func (e *exitCoder) ExitCode() int {
	return e.code
}

// WithExitCode attaches an exit code to an error.
// The exit code can be retrieved later using GetExitCode.
func WithExitCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return &exitCoder{
		cause: err,
		code:  code,
	}
}

// GetExitCode extracts the exit code from an error chain.
// Returns 0 if err is nil, 1 by default, or the specified exit code.
//
// It checks for exit codes in this order:
//  1. exitCoder attached via WithExitCode.
//  2. Well-known sentinels (options, parser, interrupt, unexpected).
//  3. Default to 1.
func GetExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	var ec *exitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}

	switch {
	case errors.Is(err, ErrInterrupted):
		return ExitCodeInterrupted
	case errors.Is(err, ErrInvalidOptions):
		return ExitCodeOptions
	case errors.Is(err, ErrInventoryParse):
		return ExitCodeParserError
	case errors.Is(err, ErrUnexpected):
		return ExitCodeUnexpected
	}

	return ExitCodeError
}

// OptionsError marks err as an options error (exit code 5).
func OptionsError(err error) error {
	if err == nil {
		return nil
	}
	return Build(err).
		WithSentinel(ErrInvalidOptions).
		WithExitCode(ExitCodeOptions).
		Err()
}

// ParserError marks err as an inventory parser error (exit code 4).
func ParserError(err error) error {
	if err == nil {
		return nil
	}
	return Build(err).
		WithSentinel(ErrInventoryParse).
		WithExitCode(ExitCodeParserError).
		Err()
}
