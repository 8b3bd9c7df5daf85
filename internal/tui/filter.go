package tui

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/taskdeck/internal/board"
)

// filterPicker is the state of the filter overlay: one dimension tab at a
// time, with a cursor over its candidate values.
type filterPicker struct {
	dim    int // index into board.Dimensions()
	row    int
	values []string
}

func (p *filterPicker) dimension() board.Dimension {
	return board.Dimensions()[p.dim]
}

func (b *Board) openPicker() {
	b.picker.row = 0
	b.picker.values = b.pickerValues(b.picker.dimension())
	b.view = viewFilter
}

func (b *Board) pickerValues(d board.Dimension) []string {
	return board.KnownValues(b.cfg, b.tasks, d)
}

func (b *Board) switchDimension(delta int) {
	n := len(board.Dimensions())
	b.picker.dim = (b.picker.dim + delta + n) % n
	b.picker.row = 0
	b.picker.values = b.pickerValues(b.picker.dimension())
}

func (b *Board) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := b.picker.dimension()
	crit := b.state.Filters.Get(d)

	switch msg.String() {
	case keyEsc, "f", "q":
		b.view = viewBoard
	case "tab", "l", "right":
		b.switchDimension(1)
	case "shift+tab", "h", "left":
		b.switchDimension(-1)
	case "j", "down":
		if b.picker.row < len(b.picker.values)-1 {
			b.picker.row++
		}
	case "k", "up":
		if b.picker.row > 0 {
			b.picker.row--
		}
	case " ", "enter":
		if b.picker.row < len(b.picker.values) {
			b.state.ToggleFilter(d, b.picker.values[b.picker.row])
			b.viewChanged()
		}
	case "m":
		if crit.CurrentMode() == board.ModeExclude {
			b.state.SetFilterMode(d, board.ModeInclude)
		} else {
			b.state.SetFilterMode(d, board.ModeExclude)
		}
		b.viewChanged()
	case "a":
		b.state.SelectAllFilter(d, b.picker.values)
		b.viewChanged()
	case "c":
		b.state.ClearFilters()
		b.viewChanged()
	}
	return b, nil
}

func (b *Board) viewFilterPicker() string {
	cur := b.picker.dimension()

	tabs := make([]string, 0, len(board.Dimensions()))
	for _, d := range board.Dimensions() {
		label := string(d)
		if n := b.state.Filters.Get(d).Count(); n > 0 {
			label += fmt.Sprintf(" (%d)", n)
		}
		if d == cur {
			tabs = append(tabs, activeColumnHeaderStyle.Render(label))
		} else {
			tabs = append(tabs, columnHeaderStyle.Render(label))
		}
	}

	crit := b.state.Filters.Get(cur)
	lines := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		"",
		dimStyle.Render("mode: " + string(crit.CurrentMode())),
		"",
	}
	if len(b.picker.values) == 0 {
		lines = append(lines, dimStyle.Render("  (no values)"))
	}
	for i, v := range b.picker.values {
		marker := "[ ]"
		switch {
		case slices.Contains(crit.Included, v):
			marker = "[+]"
		case slices.Contains(crit.Excluded, v):
			marker = "[-]"
		}
		label := v
		if cur == board.DimAssignee {
			label = board.AssigneeLabel(v)
		}
		line := "  " + marker + " " + label
		if i == b.picker.row {
			line = "› " + marker + " " + label
			line = headerStyle.Render(line)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "",
		dimStyle.Render("tab:dimension  space:toggle  m:mode  a:all  c:clear  esc:close"),
		dimStyle.Render(fmt.Sprintf("%d/%d tasks match", len(b.result.Tasks), len(b.tasks))))

	return dialogStyle.Render(strings.Join(lines, "\n"))
}
