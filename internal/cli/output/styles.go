package output

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
)

// Styles holds the lipgloss styles of a renderer. They are bound to the
// renderer's color profile, so an ASCII profile renders them as plain text.
type Styles struct {
	Header  lipgloss.Style
	Header2 lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
	Label   lipgloss.Style
	Path    lipgloss.Style
	Kind    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header:  r.NewStyle().Bold(true).Foreground(colorPrimary),
		Header2: r.NewStyle().Bold(true),
		Success: r.NewStyle().Foreground(colorSuccess),
		Error:   r.NewStyle().Foreground(colorError).Bold(true),
		Warning: r.NewStyle().Foreground(colorWarning),
		Muted:   r.NewStyle().Foreground(colorMuted),
		Label:   r.NewStyle().Bold(true),
		Path:    r.NewStyle().Foreground(colorPrimary),
		Kind:    r.NewStyle().Foreground(colorSuccess),
	}
}
