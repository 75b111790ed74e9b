package picker

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	contextStyle = lipgloss.NewStyle().
			Faint(true).
			Padding(0, 1)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Faint(true).
			Padding(0, 1)

	promptTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Padding(1, 1, 0, 1)
)
