package main

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.AdaptiveColor{Light: "#8a6d3b", Dark: "#c9a96e"}
	muted  = lipgloss.AdaptiveColor{Light: "#6b6b6b", Dark: "#9a9a9a"}

	titleStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(muted)
)
