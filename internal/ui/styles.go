// Package ui renders campaign progress and summaries in the terminal.
package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorCyan    = lipgloss.Color("#00FFFF")
	ColorMagenta = lipgloss.Color("#FF00FF")
	ColorGreen   = lipgloss.Color("#00FF00")
	ColorRed     = lipgloss.Color("#FF0055")

	ColorHeaderBg = lipgloss.Color("#16213E")

	ColorDimText    = lipgloss.Color("#666666")
	ColorBrightText = lipgloss.Color("#FFFFFF")
)

// Style definitions
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan).
			Background(ColorHeaderBg).
			Padding(0, 1).
			MarginBottom(1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorMagenta).
			Background(ColorHeaderBg).
			Padding(0, 2)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorCyan).
			Padding(1, 2)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorDimText).
			Width(20)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorBrightText).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorDimText).
			MarginTop(1)

	KeyStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorDimText)

	ProgressFullStyle = lipgloss.NewStyle().
				Foreground(ColorCyan)

	ProgressEmptyStyle = lipgloss.NewStyle().
				Foreground(ColorDimText)

	SpinnerChars = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
)

// RenderLabelValue renders a label-value pair
func RenderLabelValue(label, value string) string {
	return LabelStyle.Render(label+":") + " " + ValueStyle.Render(value)
}

// RenderHelp renders a key binding hint
func RenderHelp(key, description string) string {
	return KeyStyle.Render("["+key+"]") + " " + HelpStyle.Render(description)
}

// Title is the program name shown in headers
const Title = "hfmangle"
