package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/mdpost/internal/configloader"
	"github.com/yaklabco/mdpost/pkg/runner"
)

// Exit codes for mdpost.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitRenderErrors indicates a render run completed but some files failed.
	ExitRenderErrors = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCodeFromResult determines the exit code for a render run.
func ExitCodeFromResult(result *runner.Result) int {
	if result.HasFailures() {
		return ExitRenderErrors
	}
	return ExitSuccess
}

// ErrUsage marks command-line usage errors such as unknown flags.
var ErrUsage = errors.New("invalid usage")

// ExitCodeFromError maps a command error to an exit code.
func ExitCodeFromError(err error) int {
	var cfgErr *configloader.ValidationError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrRenderFailed):
		return ExitRenderErrors
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.As(err, &cfgErr):
		return ExitConfigError
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
