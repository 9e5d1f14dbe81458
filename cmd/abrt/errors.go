package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/abrt/abrt-cli/internal/ui"
)

// Exit statuses.
const (
	exitOK          = 0
	exitFailure     = 1
	exitNoMatch     = 2
	exitAmbiguous   = 3
	exitNoProblems  = 4
	exitUnsupported = 5
)

// exitError ends a command with a specific exit status. Its message has
// already been shown to the user by the command itself.
type exitError struct {
	Code    int
	Message string
}

func (e *exitError) Error() string {
	return e.Message
}

// exitCode maps an error returned from a command to a process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return exitFailure
}

// FatalError writes an error message to stderr and exits with code 1.
// Use this for setup failures that happen before a command can run.
func FatalError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ui.RenderFail("Error:"), fmt.Sprintf(format, args...))
	os.Exit(exitFailure)
}

// FatalErrorWithHint writes an error message with a hint to stderr and exits.
//
// Example:
//
//	FatalErrorWithHint("cannot read /var/spool/abrt", "Run abrt list --auth to see every problem")
func FatalErrorWithHint(message, hint string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ui.RenderFail("Error:"), message)
	fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	os.Exit(exitFailure)
}

// WarnError writes a warning message to stderr and returns.
// Use this for optional steps (events file, telemetry) whose failure
// should not stop the command.
func WarnError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ui.RenderWarn("Warning:"), fmt.Sprintf(format, args...))
}
