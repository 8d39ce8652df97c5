package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorCyan   = lipgloss.Color("#00D7FF")
	colorGreen  = lipgloss.Color("#00FF87")
	colorYellow = lipgloss.Color("#FFD700")
	colorRed    = lipgloss.Color("#FF5F5F")
	colorWhite  = lipgloss.Color("#FFFFFF")
	colorGray   = lipgloss.Color("#626262")
	colorBorder = lipgloss.Color("#2A2A4A")
)

var panelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorBorder).
	Padding(0, 1)

var activePanelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorCyan).
	Padding(0, 1)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(colorGray)
	sqlStyle      = lipgloss.NewStyle().Foreground(colorWhite)
	paramStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	errorStyle    = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	badgeStyle    = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
)
