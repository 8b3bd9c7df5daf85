package board

import (
	"time"

	"github.com/twiced-technology-gmbh/taskdeck/internal/config"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

// View is the complete state of a task view: filters, sort, shape and
// selection. The zero value is not ready; use NewView.
type View struct {
	Filters   Filters          `yaml:"filters" json:"filters"`
	Sort      SortSpec         `yaml:"sort,omitempty" json:"sort"`
	Mode      ViewMode         `yaml:"mode" json:"mode"`
	Layout    Layout           `yaml:"layout" json:"layout"`
	Search    string           `yaml:"search,omitempty" json:"search,omitempty"`
	Window    Window           `yaml:"window" json:"window"`
	Completed CompletedDisplay `yaml:"completed" json:"completed"`
	Focus     Focus            `yaml:"focus,omitempty" json:"focus,omitempty"`
	Selection Selection        `yaml:"selection,omitempty" json:"selection"`
}

// NewView returns a view with the built-in defaults.
func NewView() *View {
	return &View{
		Mode:      ViewTable,
		Layout:    LayoutList,
		Window:    WindowAll,
		Completed: CompletedInline,
		Focus:     FocusAll,
	}
}

// NewViewFromDefaults returns a view seeded from board defaults. Invalid
// values fall back to the built-in defaults.
func NewViewFromDefaults(d config.DefaultsConfig) *View {
	v := NewView()
	if m, err := ParseViewMode(d.ViewMode); err == nil {
		v.Mode = m
	}
	if l, err := ParseLayout(d.Layout); err == nil {
		v.Layout = l
	}
	if w, err := ParseWindow(d.TimeWindow); err == nil {
		v.Window = w
	}
	if c, err := ParseCompletedDisplay(d.CompletedDisplay); err == nil {
		v.Completed = c
	}
	return v
}

// Query returns the filter query of the view.
func (v *View) Query() Query {
	return Query{
		Filters:   v.Filters,
		Search:    v.Search,
		Window:    v.Window,
		Completed: v.Completed,
		Layout:    v.Layout,
		Focus:     v.Focus,
	}
}

// ToggleFilter flips value in dimension d.
func (v *View) ToggleFilter(d Dimension, value string) {
	v.Filters.Toggle(d, value)
	v.Mode = AutoSwitch(v.Mode, &v.Filters)
}

// SetFilterMode sets where future toggles of d land.
func (v *View) SetFilterMode(d Dimension, m Mode) {
	v.Filters.SetMode(d, m)
	v.Mode = AutoSwitch(v.Mode, &v.Filters)
}

// SelectAllFilter selects or clears every value of dimension d.
func (v *View) SelectAllFilter(d Dimension, values []string) {
	v.Filters.SelectAll(d, values)
	v.Mode = AutoSwitch(v.Mode, &v.Filters)
}

// ClearFilters resets every dimension. The view mode is left as is.
func (v *View) ClearFilters() {
	v.Filters.Clear()
	v.Mode = AutoSwitch(v.Mode, &v.Filters)
}

// ClickSort applies a header click on col.
func (v *View) ClickSort(col Column) {
	v.Sort = v.Sort.Click(col)
}

// SetMode switches the view mode explicitly.
func (v *View) SetMode(m ViewMode) {
	v.Mode = m
}

// ToggleMode flips between table and split.
func (v *View) ToggleMode() {
	if v.Mode == ViewSplit {
		v.Mode = ViewTable
		return
	}
	v.Mode = ViewSplit
}

// CycleCompleted advances the completed visibility setting.
func (v *View) CycleCompleted() {
	v.Completed = nextOf(CompletedDisplays(), v.Completed)
}

// CycleWindow advances the time window.
func (v *View) CycleWindow() {
	v.Window = nextOf(Windows(), v.Window)
}

func nextOf[T comparable](all []T, cur T) T {
	for i, x := range all {
		if x == cur {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// Result is a view applied to a task collection.
type Result struct {
	Tasks   []*task.Task `json:"tasks"`
	Grouped Grouped      `json:"grouped"`
	// Order is the visible task order used for range selection. In split
	// mode it follows the groups.
	Order []int `json:"order"`
}

// Apply filters, sorts and groups tasks.
func (v *View) Apply(tasks []*task.Task, dir Directory, now time.Time) Result {
	filtered := Filter(tasks, v.Query(), dir, now)
	sorted := Sort(filtered, v.Sort, dir, now)
	grouped := GroupForView(sorted, v.Mode)

	order := make([]int, 0, len(sorted))
	if grouped.Mode == ViewSplit {
		for _, g := range grouped.Groups {
			for _, t := range g.Tasks {
				order = append(order, t.ID)
			}
		}
	} else {
		for _, t := range sorted {
			order = append(order, t.ID)
		}
	}
	return Result{Tasks: sorted, Grouped: grouped, Order: order}
}
