package main

import "github.com/charmbracelet/lipgloss"

// Centralized style definitions for terminal output.
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan
	fileStyle    = lipgloss.NewStyle().Bold(true)
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4")) // blue
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // yellow
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // red
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // green

	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)
