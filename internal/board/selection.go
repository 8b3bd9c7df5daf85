package board

import "slices"

// ClickEvent carries the modifiers of a row click.
type ClickEvent struct {
	Shift bool
}

// Selection is the multi-select state of a view. IDs keeps insertion order;
// its last element is the anchor for shift-click ranges.
type Selection struct {
	IDs         []int `yaml:"ids,omitempty" json:"ids"`
	MultiSelect bool  `yaml:"multi_select,omitempty" json:"multi_select"`
	Expanded    []int `yaml:"expanded,omitempty" json:"expanded,omitempty"`
}

// Has reports whether id is selected.
func (s *Selection) Has(id int) bool {
	return slices.Contains(s.IDs, id)
}

// IsExpanded reports whether the subtasks of id are shown.
func (s *Selection) IsExpanded(id int) bool {
	return slices.Contains(s.Expanded, id)
}

// Anchor returns the most recently selected id.
func (s *Selection) Anchor() (int, bool) {
	if len(s.IDs) == 0 {
		return 0, false
	}
	return s.IDs[len(s.IDs)-1], true
}

// Toggle adds or removes id, preserving the order of the others.
func (s *Selection) Toggle(id int) {
	if i := slices.Index(s.IDs, id); i >= 0 {
		s.IDs = slices.Delete(s.IDs, i, i+1)
		return
	}
	s.IDs = append(s.IDs, id)
}

// Click applies a row click. order is the visible task order.
//   - Shift with a non-empty selection adds the inclusive range between the
//     anchor and id; when either is not visible it degrades to Toggle.
//   - A plain click in multi-select mode toggles id.
//   - A plain click outside multi-select expands or collapses the subtasks
//     of a task that has them, and does nothing otherwise.
func (s *Selection) Click(id int, ev ClickEvent, order []int, hasSubtasks bool) {
	if ev.Shift && len(s.IDs) > 0 {
		s.extendRange(id, order)
		return
	}
	if s.MultiSelect {
		s.Toggle(id)
		return
	}
	if hasSubtasks {
		s.toggleExpanded(id)
	}
}

func (s *Selection) extendRange(id int, order []int) {
	anchor, _ := s.Anchor()
	from := slices.Index(order, anchor)
	to := slices.Index(order, id)
	if from < 0 || to < 0 {
		s.Toggle(id)
		return
	}
	if from > to {
		from, to = to, from
	}
	for _, rid := range order[from : to+1] {
		if !s.Has(rid) {
			s.IDs = append(s.IDs, rid)
		}
	}
}

func (s *Selection) toggleExpanded(id int) {
	if i := slices.Index(s.Expanded, id); i >= 0 {
		s.Expanded = slices.Delete(s.Expanded, i, i+1)
		return
	}
	s.Expanded = append(s.Expanded, id)
}

// SelectAll enters multi-select with every visible task selected. Once in
// multi-select it toggles between all visible selected and none.
func (s *Selection) SelectAll(order []int) {
	if !s.MultiSelect {
		s.MultiSelect = true
		s.IDs = slices.Clone(order)
		return
	}
	if s.allSelected(order) {
		s.IDs = nil
		return
	}
	s.IDs = slices.Clone(order)
}

func (s *Selection) allSelected(order []int) bool {
	for _, id := range order {
		if !s.Has(id) {
			return false
		}
	}
	return true
}

// SetMultiSelect enters or leaves multi-select. Leaving clears the selection.
func (s *Selection) SetMultiSelect(on bool) {
	if !on {
		s.Clear()
		return
	}
	s.MultiSelect = true
}

// Clear empties the selection and leaves multi-select. Expanded rows stay.
func (s *Selection) Clear() {
	s.IDs = nil
	s.MultiSelect = false
}
