// Package ui provides terminal styling, paging and prompts for abrt output.
// Uses the Ayu color theme with adaptive light/dark mode support.
package ui

import "github.com/charmbracelet/lipgloss"

// Ayu theme color palette
// Dark: https://terminalcolors.com/themes/ayu/dark/
// Light: https://terminalcolors.com/themes/ayu/light/
var (
	colorReported = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	colorWarn     = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	colorFail     = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	colorMuted    = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
	colorID       = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
)

var (
	idStyle       = lipgloss.NewStyle().Foreground(colorID)
	labelStyle    = lipgloss.NewStyle().Bold(true)
	reportedStyle = lipgloss.NewStyle().Foreground(colorReported)
	warnStyle     = lipgloss.NewStyle().Foreground(colorWarn)
	failStyle     = lipgloss.NewStyle().Foreground(colorFail)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
)

// RenderID renders a problem id or the "id X" header line.
func RenderID(s string) string {
	return idStyle.Render(s)
}

// RenderLabel renders a field label in a problem listing.
func RenderLabel(s string) string {
	return labelStyle.Render(s)
}

// RenderReported renders the targets a problem was reported to.
func RenderReported(s string) string {
	return reportedStyle.Render(s)
}

// RenderWarn renders warnings and refusals.
func RenderWarn(s string) string {
	return warnStyle.Render(s)
}

// RenderFail renders error prefixes.
func RenderFail(s string) string {
	return failStyle.Render(s)
}

// RenderMuted renders status notices such as "No problems".
func RenderMuted(s string) string {
	return mutedStyle.Render(s)
}
