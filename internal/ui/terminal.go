package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

func init() {
	ApplyColorProfile()
}

// IsTerminal reports whether stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsInputTerminal reports whether stdin is a terminal.
func IsInputTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ShouldUseColor follows the NO_COLOR and CLICOLOR conventions:
// NO_COLOR always wins, CLICOLOR_FORCE forces colour on, CLICOLOR=0 turns
// it off, and otherwise colour follows whether stdout is a terminal.
func ShouldUseColor() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok && os.Getenv("NO_COLOR") != "" {
		return false
	}
	if f := os.Getenv("CLICOLOR_FORCE"); f != "" && f != "0" {
		return true
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	return IsTerminal()
}

// ApplyColorProfile sets the lipgloss colour profile from the environment.
// Called at init and again after flags that affect output are parsed.
func ApplyColorProfile() {
	if !ShouldUseColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.EnvColorProfile()
	if profile == termenv.Ascii {
		// Forced colour on a non-terminal still gets basic ANSI colours.
		profile = termenv.ANSI
	}
	lipgloss.SetColorProfile(profile)
}
