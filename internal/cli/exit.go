package cli

import (
	"errors"

	"github.com/jsdb-labs/jsdb/internal/bundle"
	"github.com/jsdb-labs/jsdb/internal/config"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// usageError marks bad flags or arguments.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// ExitCode maps an error returned by Execute to a process exit code.
// Problems the user can fix from the command line map to ExitUsage;
// everything else is ExitFailure.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		usage   *usageError
		missing *bundle.MissingPathError
		setting *config.SettingError
		invalid *config.InvalidFileError
	)
	switch {
	case errors.As(err, &usage),
		errors.As(err, &missing),
		errors.As(err, &setting),
		errors.As(err, &invalid):
		return ExitUsage
	}
	return ExitFailure
}
