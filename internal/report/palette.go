package report

import "github.com/charmbracelet/lipgloss"

var (
	Cyan    = lipgloss.Color("#00E5FF")
	Magenta = lipgloss.Color("#FF1B6B")
	Yellow  = lipgloss.Color("#FFB500")
	Green   = lipgloss.Color("#2AFFAA")
	Red     = lipgloss.Color("#FF5555")
	Muted   = lipgloss.Color("#6C7280")
	Text    = lipgloss.Color("#ECEFF4")
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(Magenta).Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Foreground(Text).Padding(0, 1)
	numericStyle = cellStyle.Align(lipgloss.Right)
	okStyle      = cellStyle.Foreground(Green)
	failStyle    = cellStyle.Foreground(Red)
	borderStyle  = lipgloss.NewStyle().Foreground(Muted)
	titleStyle   = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(Muted).Width(10)
	errorStyle   = lipgloss.NewStyle().Foreground(Red)
	warnStyle    = lipgloss.NewStyle().Foreground(Yellow)
)
