package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	dayHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			Align(lipgloss.Center)

	todayHeaderStyle = dayHeaderStyle.
				Foreground(lipgloss.Color("212"))

	slotLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	hourRuleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	// Cell palettes follow the event category: green for open
	// availability, blue for employee bookings, purple for customer
	// bookings.
	availableCellStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("29"))

	employeeCellStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("25"))

	customerCellStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("55"))

	dragSelectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("232")).
			Background(lipgloss.Color("220"))

	movePreviewStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("232")).
				Background(lipgloss.Color("214"))

	sidebarTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252"))

	personStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("248"))

	personSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("230"))

	personCursorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("237"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	savingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)

	modalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230"))

	fieldLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	fieldErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	popoverStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("245")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)
