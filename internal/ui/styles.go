package ui

import "github.com/charmbracelet/lipgloss"

var (
	appStyle = lipgloss.NewStyle().Padding(1, 2)

	tabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("245"))
	activeTabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true).
			Foreground(lipgloss.Color("212"))

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(lipgloss.Color("240"))

	rowStyle         = lipgloss.NewStyle()
	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	paidStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	unpaidStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)

	modalTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

	fieldLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(20)

	suggestionStyle         = lipgloss.NewStyle().PaddingLeft(2)
	selectedSuggestionStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	statusLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorLineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func statusStyle(status string) lipgloss.Style {
	switch status {
	case "paid":
		return paidStyle
	case "overdue":
		return overdueStyle
	default:
		return unpaidStyle
	}
}
