package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

// --- Styles ---

var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	activeColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("226")).
			Padding(0, 1)

	selectedCardStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")).
				Padding(0, 1)

	overdueCardStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("196")).
				Padding(0, 1)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))

	groupStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))

	selectedRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	timerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)

	clientStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("66"))

	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	dueSoonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	dialogPadY = 1
	dialogPadX = 2

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(dialogPadY, dialogPadX)

	statusColors = map[string]lipgloss.Color{
		"todo":        "252",
		"in-progress": "33",
		"blocked":     "196",
		"completed":   "241",
	}

	priorityColors = map[string]lipgloss.Color{
		task.PriorityHigh:   "196",
		task.PriorityMedium: "214",
		task.PriorityLow:    "241",
	}
)

// statusStyle colors the well-known statuses; custom ones render plain.
func statusStyle(s string) lipgloss.Style {
	if c, ok := statusColors[s]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return lipgloss.NewStyle()
}

func priorityStyle(p string) lipgloss.Style {
	if c, ok := priorityColors[p]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return lipgloss.NewStyle()
}

// --- Dialogs ---

func (b *Board) viewDeleteConfirm() string {
	content := errorStyle.Render("Delete task?") + "\n\n" +
		fmt.Sprintf("  #%d: %s", b.deleteID, b.deleteName) + "\n\n" +
		dimStyle.Render("The task is archived and drops off the board.") + "\n\n" +
		dimStyle.Render("y:yes  n:no")

	return dialogStyle.Render(content)
}

func (b *Board) viewSwitchConfirm() string {
	p := b.timer.Pending()
	if p == nil {
		return dialogStyle.Render("No switch pending.")
	}
	name := func(id int) string {
		if t := b.taskByID(id); t != nil {
			return fmt.Sprintf("#%d: %s", id, t.Name)
		}
		return fmt.Sprintf("#%d", id)
	}
	content := headerStyle.Render("Switch timer?") + "\n\n" +
		"  from " + timerStyle.Render(name(p.FromTaskID)) + "\n" +
		"  to   " + name(p.ToTaskID) + "\n\n" +
		dimStyle.Render("y:switch  n:keep running")

	return dialogStyle.Render(content)
}
