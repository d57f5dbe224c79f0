package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - all colors meet WCAG AA contrast (4.5:1) on both black and dark surfaces
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
	SurfaceColor   = lipgloss.Color("#1F2937") // Dark surface
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BorderColor    = lipgloss.Color("#6B7280") // Gray

	// Convenience styles for colors
	Primary   = lipgloss.NewStyle().Foreground(PrimaryColor)
	Secondary = lipgloss.NewStyle().Foreground(SecondaryColor)
	Warning   = lipgloss.NewStyle().Foreground(WarningColor)
	Error     = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted     = lipgloss.NewStyle().Foreground(MutedColor)
	Text      = lipgloss.NewStyle().Foreground(TextColor)

	// Task state colors
	StateReady       = lipgloss.Color("#10B981") // Green
	StateBlocked     = lipgloss.Color("#F59E0B") // Amber
	StateResolved    = lipgloss.Color("#A78BFA") // Purple
	StatePlaceholder = lipgloss.Color("#9CA3AF") // Gray

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	// Content area
	ContentBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	// Help bar
	HelpBar = lipgloss.NewStyle().
		Foreground(MutedColor).
		MarginTop(1)

	HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(SecondaryColor)

	// Footer / status bar
	StatusBar = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(SurfaceColor).
			Padding(0, 1)

	// Command prompt
	Prompt = lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Bold(true)

	// Error message
	ErrorMsg = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// Success message
	SuccessMsg = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	// Warning message
	WarningMsg = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)
)

// StateColor returns the color for a task state.
func StateColor(state string) lipgloss.Color {
	switch state {
	case "ready":
		return StateReady
	case "blocked":
		return StateBlocked
	case "resolved":
		return StateResolved
	case "placeholder":
		return StatePlaceholder
	default:
		return MutedColor
	}
}

// StateIcon returns an icon for a task state.
func StateIcon(state string) string {
	switch state {
	case "ready":
		return "●"
	case "blocked":
		return "◌"
	case "resolved":
		return "✓"
	case "placeholder":
		return "?"
	default:
		return "●"
	}
}

// Painter applies styles only when color output is enabled.
type Painter struct {
	Color bool
}

// Paint renders s with style, or returns s unchanged when color is off.
func (p Painter) Paint(style lipgloss.Style, s string) string {
	if !p.Color {
		return s
	}
	return style.Render(s)
}

// State renders a state name in its state color.
func (p Painter) State(state string) string {
	return p.Paint(lipgloss.NewStyle().Foreground(StateColor(state)), state)
}
