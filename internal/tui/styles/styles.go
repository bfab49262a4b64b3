package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors - a pleasant color palette
var (
	// Primary colors
	Primary = lipgloss.Color("#7C3AED") // Purple
	Accent  = lipgloss.Color("#F59E0B") // Amber

	// Status colors
	Warning = lipgloss.Color("#F59E0B") // Amber
	Error   = lipgloss.Color("#EF4444") // Red

	// Neutral colors
	Border    = lipgloss.Color("#4B5563") // Light gray
	Text      = lipgloss.Color("#F9FAFB") // White
	TextMuted = lipgloss.Color("#9CA3AF") // Gray
	TextDim   = lipgloss.Color("#6B7280") // Darker gray

	// Playback green
	PlayGreen = lipgloss.Color("#1DB954")
)

// Text styles
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Text)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextMuted)

	Highlight = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	Dim = lipgloss.NewStyle().
		Foreground(TextDim)

	Playing = lipgloss.NewStyle().
		Foreground(PlayGreen)

	Paused = lipgloss.NewStyle().
		Foreground(Warning)

	Tag = lipgloss.NewStyle().
		Foreground(Accent)
)

// Border styles
var (
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border)

	FocusedBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary)
)

// ProgressBar renders a bracketed progress bar with the play state glyph
// riding the tip of the fill: [===>------] while playing, [===|------]
// while paused. width is the total rendered width including brackets.
func ProgressBar(percent float64, width int, playing bool) string {
	inner := width - 2
	if inner < 1 {
		return ""
	}
	filled := int(percent / 100 * float64(inner))
	if filled > inner {
		filled = inner
	}
	if filled < 1 {
		filled = 1
	}

	icon := "|"
	iconStyle := Paused
	if playing {
		icon = ">"
		iconStyle = Playing
	}

	fillStyle := lipgloss.NewStyle().Foreground(Primary)
	emptyStyle := lipgloss.NewStyle().Foreground(Border)
	frame := lipgloss.NewStyle().Foreground(TextDim)

	return frame.Render("[") +
		fillStyle.Render(strings.Repeat("=", filled-1)) +
		iconStyle.Render(icon) +
		emptyStyle.Render(strings.Repeat("-", inner-filled)) +
		frame.Render("]")
}
