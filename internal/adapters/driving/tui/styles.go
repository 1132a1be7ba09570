package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles for the surface view.
type Styles struct {
	Title  lipgloss.Style
	Key    lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
	Help   lipgloss.Style
}

// DefaultStyles returns the default surface styling.
func DefaultStyles() *Styles {
	return &Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")).Padding(0, 1),
		Key:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Status: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
	}
}
