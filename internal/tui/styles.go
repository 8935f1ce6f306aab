package tui

import "github.com/charmbracelet/lipgloss"

// styles contains all lipgloss styles used by the TUI.
var styles = struct {
	// Layout styles
	Container lipgloss.Style
	Divider   lipgloss.Style

	// Header styles
	Title     lipgloss.Style
	Counts    lipgloss.Style
	SyncOK    lipgloss.Style
	SyncError lipgloss.Style

	// Footer style
	Footer lipgloss.Style

	// Node styles
	Group         lipgloss.Style
	GroupActive   lipgloss.Style
	Item          lipgloss.Style
	Selected      lipgloss.Style
	Grabbed       lipgloss.Style
	Coords        lipgloss.Style
	Template      lipgloss.Style
	Edge          lipgloss.Style

	// Modal styles
	ModalBorder lipgloss.Style
	PromptLabel lipgloss.Style
	PromptError lipgloss.Style
	Answer      lipgloss.Style
	Context     lipgloss.Style
}{
	// Layout styles
	Container: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")),

	Divider: lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")),

	// Header styles
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212")),

	Counts: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	SyncOK: lipgloss.NewStyle().
		Foreground(lipgloss.Color("114")),

	SyncError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")),

	// Footer style
	Footer: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	// Node styles
	Group: lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")),

	GroupActive: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")),

	Item: lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")),

	Selected: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("220")),

	Grabbed: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("82")),

	Coords: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	Template: lipgloss.NewStyle().
		Italic(true).
		Foreground(lipgloss.Color("245")),

	Edge: lipgloss.NewStyle().
		Foreground(lipgloss.Color("177")),

	// Modal styles
	ModalBorder: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("205")).
		Padding(1, 2),

	PromptLabel: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")),

	PromptError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")),

	Answer: lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")),

	Context: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),
}
