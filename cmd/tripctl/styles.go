package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mmynk/tripsplit/internal/calculator"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))

	owesStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	getsBackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))
	settledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1D3"))
)

func statusStyle(s calculator.Status) lipgloss.Style {
	switch s {
	case calculator.StatusOwes:
		return owesStyle
	case calculator.StatusGetsBack:
		return getsBackStyle
	default:
		return settledStyle
	}
}
