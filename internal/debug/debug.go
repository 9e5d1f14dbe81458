// Package debug holds the process-wide verbosity switches and the helpers
// that honour them. Diagnostics go to stderr; normal output to the writer
// given.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	enabled     = envEnabled()
	verboseMode = false
	quietMode   = false

	// logMutex serialises stderr writes from the store's loader goroutines.
	logMutex  sync.Mutex
	logOutput io.Writer = os.Stderr
)

// envEnabled reports whether ABRT_DEBUG asks for debug output.
func envEnabled() bool {
	return os.Getenv("ABRT_DEBUG") != ""
}

// SetVerbose enables verbose/debug output
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// SetQuiet enables quiet mode (suppress non-essential output)
func SetQuiet(quiet bool) {
	quietMode = quiet
}

// Logf writes a diagnostic line to stderr when debugging is on. Safe for
// concurrent use.
func Logf(format string, args ...interface{}) {
	if enabled || verboseMode {
		logMutex.Lock()
		defer logMutex.Unlock()
		fmt.Fprintf(logOutput, format, args...)
	}
}

// Warnf writes a "Warning: " line to w whatever the verbosity. Safe for
// concurrent use.
func Warnf(w io.Writer, format string, args ...interface{}) {
	logMutex.Lock()
	defer logMutex.Unlock()
	fmt.Fprintf(w, "Warning: "+format+"\n", args...)
}

// FprintNormal prints output unless quiet mode is enabled.
func FprintNormal(w io.Writer, format string, args ...interface{}) {
	if !quietMode {
		fmt.Fprintf(w, format, args...)
	}
}
