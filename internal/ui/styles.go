// Package ui renders circlepack reports for the terminal.
// Colors are semantic: severity maps to fail, warn and muted tones.
package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/ukaji3/circlepack-go/pkg/circlepack/models"
)

// Ayu theme palette, adaptive to light and dark backgrounds.
var (
	ColorPass   = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	ColorWarn   = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	ColorFail   = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	ColorMuted  = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
	ColorAccent = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
)

// Styles holds the styles bound to one output.
type Styles struct {
	Title  lipgloss.Style
	Pass   lipgloss.Style
	Warn   lipgloss.Style
	Fail   lipgloss.Style
	Muted  lipgloss.Style
	Accent lipgloss.Style
}

// NewStyles creates styles for w. Color is dropped automatically when w is
// not a terminal or NO_COLOR is set.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Title:  r.NewStyle().Bold(true),
		Pass:   r.NewStyle().Foreground(ColorPass),
		Warn:   r.NewStyle().Foreground(ColorWarn),
		Fail:   r.NewStyle().Foreground(ColorFail).Bold(true),
		Muted:  r.NewStyle().Foreground(ColorMuted),
		Accent: r.NewStyle().Foreground(ColorAccent),
	}
}

// Severity returns the style for a problem severity.
func (s Styles) Severity(sev models.Severity) lipgloss.Style {
	switch sev {
	case models.SeverityHigh:
		return s.Fail
	case models.SeverityMedium:
		return s.Warn
	default:
		return s.Muted
	}
}
