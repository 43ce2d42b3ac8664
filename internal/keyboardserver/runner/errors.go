package runner

import "github.com/tansive/keyboardserver/internal/common/apperrors"

var (
	// ErrRunnerError is the base error for the package.
	ErrRunnerError = apperrors.New("command runner error").SetExpandError(true)

	// ErrInvalidCommand is returned when no command name is given.
	ErrInvalidCommand = ErrRunnerError.New("invalid command")

	// ErrCommandNotFound is returned when the executable cannot be located.
	ErrCommandNotFound = ErrRunnerError.New("command not found")

	// ErrExecutionFailed is returned when the command exits with an error.
	ErrExecutionFailed = ErrRunnerError.New("execution failed")
)
