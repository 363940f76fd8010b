package main

import "fmt"

// Exit codes for the vidlens CLI.
const (
	ExitOK          = 0 // Success.
	ExitInvalidArgs = 1 // Invalid arguments, bad path or invalid dataset.
	ExitDataFailure = 2 // The source could not be read or a chart failed to build.
	ExitUnavailable = 3 // A required service (store, assistant) is not configured.
)

type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError. If msg is empty, the error message is
// set to a generic description of the exit code.
func exitError(code int, format string, args ...any) *exitCodeError {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		switch code {
		case ExitDataFailure:
			msg = "vidlens: data could not be loaded"
		case ExitUnavailable:
			msg = "vidlens: service unavailable"
		default:
			msg = "vidlens: error"
		}
	}
	return &exitCodeError{code: code, msg: msg}
}
