// SPDX-License-Identifier: MPL-2.0

package render

import "github.com/charmbracelet/lipgloss"

// Color palette shared by every rendered element.
const (
	// ColorPrimary is purple, used for titles and the prompt.
	ColorPrimary = lipgloss.Color("#7C3AED")
	// ColorMuted is gray, used for descriptions and labels.
	ColorMuted = lipgloss.Color("#6B7280")
	// ColorSuccess is green, used for values.
	ColorSuccess = lipgloss.Color("#10B981")
	// ColorError is red.
	ColorError = lipgloss.Color("#EF4444")
	// ColorWarning is amber, used for flags and the failing token.
	ColorWarning = lipgloss.Color("#F59E0B")
	// ColorHighlight is blue, used for commands.
	ColorHighlight = lipgloss.Color("#3B82F6")
	// ColorVerbose is light gray, used for parameter names.
	ColorVerbose = lipgloss.Color("#9CA3AF")
)

// Styles are the lipgloss styles of one Renderer.
type Styles struct {
	Title     lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Token     lipgloss.Style
	Directory lipgloss.Style
	Command   lipgloss.Style
	Param     lipgloss.Style
	Flag      lipgloss.Style
	Value     lipgloss.Style
	Prompt    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title:     r.NewStyle().Bold(true).Foreground(ColorPrimary),
		Muted:     r.NewStyle().Foreground(ColorMuted),
		Error:     r.NewStyle().Bold(true).Foreground(ColorError),
		Token:     r.NewStyle().Underline(true).Foreground(ColorWarning),
		Directory: r.NewStyle().Bold(true).Foreground(ColorPrimary),
		Command:   r.NewStyle().Foreground(ColorHighlight),
		Param:     r.NewStyle().Foreground(ColorVerbose),
		Flag:      r.NewStyle().Foreground(ColorWarning),
		Value:     r.NewStyle().Foreground(ColorSuccess),
		Prompt:    r.NewStyle().Bold(true).Foreground(ColorPrimary),
	}
}
