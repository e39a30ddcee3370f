package errors

import (
	"os"

	"github.com/cockroachdb/errors"
)

// OsExit is a variable for testing, so we can mock os.Exit.
var OsExit = os.Exit

// Unexpected wraps a recovered panic value as an unexpected error (exit code 250).
// The verbosity hint is dropped when the caller already shows stack traces.
func Unexpected(recovered interface{}, verbose bool) error {
	err := Build(ErrUnexpected).
		WithCause(errors.Newf("%v", recovered)).
		WithExitCode(ExitCodeUnexpected)
	if !verbose {
		err = err.WithHint("to see the full traceback, use -vvv")
	}
	return err.Err()
}
