package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
)

// HeaderStyle is used for section headers over table output.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// LabelStyle is used for column labels in table output.
var LabelStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorGray)

// SubtleStyle de-emphasizes secondary fields like timestamps.
var SubtleStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// SummaryStyle indents and colors archived summary bullet points.
var SummaryStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	PaddingLeft(2)

// ErrorStyle highlights error messages in command output.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// CategoryStyle returns a color-coded style for the given email category.
func CategoryStyle(category string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch category {
	case "non_essential":
		return base.Foreground(ColorGray)
	case "save_and_summarize":
		return base.Foreground(ColorBlue)
	case "important":
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorGray)
	}
}

// ActionStyle returns a color-coded style for the given audit action.
func ActionStyle(action string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch action {
	case "processed":
		return base.Foreground(ColorGreen)
	case "failed":
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}

// ConfidenceStyle returns a style graded by classification confidence.
func ConfidenceStyle(confidence float64) lipgloss.Style {
	base := lipgloss.NewStyle()

	switch {
	case confidence >= 0.8:
		return base.Foreground(ColorGreen)
	case confidence >= 0.5:
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorOrange)
	}
}
