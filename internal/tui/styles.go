package tui

import lipgloss "github.com/charmbracelet/lipgloss"

var (
	colorBorder lipgloss.TerminalColor = lipgloss.AdaptiveColor{Dark: "#30363d", Light: "#d0d7de"}
	colorMuted  lipgloss.TerminalColor = lipgloss.AdaptiveColor{Dark: "#484f58", Light: "#8c959f"}
	colorText   lipgloss.TerminalColor = lipgloss.AdaptiveColor{Dark: "#e6edf3", Light: "#1f2328"}
	colorSubtle lipgloss.TerminalColor = lipgloss.AdaptiveColor{Dark: "#8b949e", Light: "#656d76"}
	colorAccent lipgloss.TerminalColor = lipgloss.AdaptiveColor{Dark: "#58a6ff", Light: "#0969da"}
	colorGreen  lipgloss.TerminalColor = lipgloss.AdaptiveColor{Dark: "#3fb950", Light: "#1a7f37"}
	colorYellow lipgloss.TerminalColor = lipgloss.AdaptiveColor{Dark: "#d29922", Light: "#9a6700"}
	colorRed    lipgloss.TerminalColor = lipgloss.AdaptiveColor{Dark: "#f85149", Light: "#cf222e"}
	colorPurple lipgloss.TerminalColor = lipgloss.AdaptiveColor{Dark: "#bc8cff", Light: "#8250df"}
)

var (
	// text styles
	styleMuted      = lipgloss.NewStyle().Foreground(colorMuted)
	styleSubtle     = lipgloss.NewStyle().Foreground(colorSubtle)
	styleText       = lipgloss.NewStyle().Foreground(colorText)
	styleTextBold   = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	styleAccent     = lipgloss.NewStyle().Foreground(colorAccent)
	styleAccentBold = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleGreen      = lipgloss.NewStyle().Foreground(colorGreen)
	styleYellow     = lipgloss.NewStyle().Foreground(colorYellow)
	styleRed        = lipgloss.NewStyle().Foreground(colorRed)
	stylePurple     = lipgloss.NewStyle().Foreground(colorPurple)

	// Layout styles
	styleHeaderTitle = styleAccentBold.Padding(0, 2)
	styleHeaderBar   = lipgloss.NewStyle().BorderBottom(true).BorderStyle(lipgloss.NormalBorder()).BorderBottomForeground(colorBorder)
	styleFooterBar   = lipgloss.NewStyle().BorderTop(true).BorderStyle(lipgloss.NormalBorder()).BorderTopForeground(colorBorder).Padding(0, 2)
	stylePanel       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)
)
