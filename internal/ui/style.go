package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	termStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	ruleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func styleStatus(status string) lipgloss.Style {
	switch {
	case status == "done":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case status == "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case status == "queued":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	case strings.HasPrefix(status, "actions"), status == "naming", status == "loading", status == "translating":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}

// pad fills value with spaces up to width display columns.
func pad(value string, width int) string {
	return runewidth.FillRight(truncate(value, width), width)
}
