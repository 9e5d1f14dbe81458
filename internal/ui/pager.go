package ui

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

// PagerOptions controls pager behavior
type PagerOptions struct {
	// NoPager disables pager for this command (--no-pager flag)
	NoPager bool
	// Out receives the content when no pager runs. Defaults to os.Stdout.
	Out io.Writer
}

// shouldUsePager determines if output should be piped to a pager.
// Returns false if:
// - NoPager option is set
// - ABRT_NO_PAGER environment variable is set
// - output goes somewhere other than a terminal stdout
func shouldUsePager(opts PagerOptions) bool {
	if opts.NoPager {
		return false
	}
	if os.Getenv("ABRT_NO_PAGER") != "" {
		return false
	}
	if opts.Out != nil && opts.Out != io.Writer(os.Stdout) {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// getPagerCommand returns the pager command to use.
// Checks ABRT_PAGER, then PAGER, defaults to "less".
func getPagerCommand() string {
	if pager := os.Getenv("ABRT_PAGER"); pager != "" {
		return pager
	}
	if pager := os.Getenv("PAGER"); pager != "" {
		return pager
	}
	return "less"
}

// getTerminalHeight returns the height of the terminal in lines.
// Returns 0 if unable to determine (not a TTY).
func getTerminalHeight() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	_, height, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return height
}

// contentHeight counts the number of lines in the content.
func contentHeight(content string) int {
	if content == "" {
		return 0
	}
	return strings.Count(content, "\n") + 1
}

// ToPager pipes content to a pager if appropriate; otherwise, or when the
// content fits on the screen, it writes content directly.
func ToPager(content string, opts PagerOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if !shouldUsePager(opts) {
		_, err := fmt.Fprint(out, content)
		return err
	}

	termHeight := getTerminalHeight()
	if termHeight > 0 && contentHeight(content) <= termHeight-1 {
		_, err := fmt.Fprint(out, content)
		return err
	}

	// The pager command may carry arguments ("less -R").
	parts := strings.Fields(getPagerCommand())
	if len(parts) == 0 {
		_, err := fmt.Fprint(out, content)
		return err
	}

	cmd := exec.Command(parts[0], parts[1:]...) // #nosec G204 - pager command is user-configurable by design
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// -R: Allow ANSI color codes
	// -F: Quit if content fits on one screen
	// -X: Don't clear screen on exit
	if os.Getenv("LESS") == "" {
		cmd.Env = append(os.Environ(), "LESS=-RFX")
	} else {
		cmd.Env = os.Environ()
	}

	return cmd.Run()
}
