package commands

import "github.com/charmbracelet/lipgloss"

var (
	styleBold    = lipgloss.NewStyle().Bold(true)
	styleFaint   = lipgloss.NewStyle().Faint(true)
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleError   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	numberColor  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	styleLabel   = lipgloss.NewStyle().Width(12).Foreground(lipgloss.Color("244"))
)

// field renders an aligned "label value" line.
func field(label, value string) string {
	return styleLabel.Render(label) + value
}
