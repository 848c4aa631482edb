package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/autoplan/internal/keyring"
	"github.com/julianstephens/autoplan/internal/logger"
	"github.com/julianstephens/autoplan/internal/scheduler"
	"github.com/julianstephens/autoplan/internal/storage"
	"github.com/julianstephens/autoplan/internal/storage/postgres"
)

// Exit codes follow sysexits(3) where one fits.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitDataErr     = 65
	ExitUnavailable = 69
	ExitSoftware    = 70
	ExitTempFail    = 75
	ExitConfig      = 78
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, scheduler.ErrInvalidTask):
		return ExitDataErr
	case stderrors.Is(err, scheduler.ErrInvariant):
		return ExitSoftware
	case stderrors.Is(err, scheduler.ErrPlanInProgress),
		stderrors.Is(err, context.Canceled),
		stderrors.Is(err, context.DeadlineExceeded):
		return ExitTempFail
	case stderrors.Is(err, keyring.ErrKeyringUnavailable):
		return ExitUnavailable
	case stderrors.Is(err, storage.ErrNotInitialized),
		stderrors.Is(err, postgres.ErrEmbeddedCredentials),
		stderrors.Is(err, postgres.ErrInvalidConnectionString):
		return ExitConfig
	default:
		return ExitFailure
	}
}

// Report logs err and writes it to w. It returns the exit code for err.
func Report(w io.Writer, err error) int {
	if err == nil {
		return ExitOK
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintln(w, Format(err))
	return ExitCode(err)
}

// Fatal reports err on stderr and exits with its exit code
func Fatal(err error) {
	if err != nil {
		os.Exit(Report(os.Stderr, err))
	}
}
