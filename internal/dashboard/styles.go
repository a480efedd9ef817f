package dashboard

import "github.com/charmbracelet/lipgloss"

// Dashboard color palette
const (
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	ColorHealthy  = lipgloss.Color("#39FF14")
	ColorWarning  = lipgloss.Color("#FFAA00")
	ColorCritical = lipgloss.Color("#FF0055")

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent = lipgloss.Color("#FF2E97")
	ColorGraph  = lipgloss.Color("#00FFFF")
)

// Thresholds for metric severity levels
const (
	WarningThreshold  = 70.0
	CriticalThreshold = 90.0
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	SectionTitleStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorHealthy)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorCritical)

	PromptStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
)

// MetricColor maps a percentage to the severity color scale.
func MetricColor(percent float64) lipgloss.Color {
	switch {
	case percent >= CriticalThreshold:
		return ColorCritical
	case percent >= WarningThreshold:
		return ColorWarning
	default:
		return ColorHealthy
	}
}
