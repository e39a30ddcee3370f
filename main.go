package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"

	"github.com/cloudposse/invctl/cmd"
	errUtils "github.com/cloudposse/invctl/errors"
	log "github.com/cloudposse/invctl/pkg/logger"
)

func main() {
	// Use errUtils.OsExit to allow test interception.
	errUtils.OsExit(run())
}

// run executes the application and returns an exit code.
// This separation allows deferred cleanup before os.Exit in main().
func run() (exitCode int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A second signal falls through to the default handler.
	go func() {
		<-ctx.Done()
		stop()
	}()

	defer func() {
		if r := recover(); r != nil {
			exitCode = report(errUtils.Unexpected(r, verbose()))
		}
	}()

	err := cmd.Execute(ctx)
	if err == nil {
		return 0
	}
	if ctx.Err() != nil && !errors.Is(err, errUtils.ErrInterrupted) {
		err = errUtils.Build(errUtils.ErrInterrupted).WithCause(err).Err()
	}
	return report(err)
}

// report prints err to stderr and returns its exit code.
func report(err error) int {
	cfg := errUtils.DefaultFormatterConfig()
	cfg.Verbose = verbose()

	formatted := errUtils.Format(err, cfg)
	_, _ = os.Stderr.WriteString(formatted + "\n")

	exitCode := errUtils.GetExitCode(err)
	log.Debug("Exiting with exit code", "code", exitCode)
	return exitCode
}

// verbose reports whether -vvv (trace logging) is in effect.
func verbose() bool {
	return log.Default().GetLevel() <= log.TraceLevel
}
