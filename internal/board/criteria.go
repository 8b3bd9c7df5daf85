package board

import (
	"slices"
	"strings"

	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
)

// Dimension names a filterable task attribute.
type Dimension string

// Filter dimensions.
const (
	DimAssignee Dimension = "assignee"
	DimClient   Dimension = "client"
	DimStatus   Dimension = "status"
	DimPriority Dimension = "priority"
	DimList     Dimension = "list"
)

// Dimensions returns all filter dimensions in display order.
func Dimensions() []Dimension {
	return []Dimension{DimAssignee, DimClient, DimStatus, DimPriority, DimList}
}

// ParseDimension validates a dimension name.
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Dimensions(), d) {
		return d, nil
	}
	return "", clierr.Newf(clierr.InvalidDimension, "invalid filter dimension %q", s).
		WithDetails(map[string]any{"input": s, "allowed": Dimensions()})
}

// Mode decides which set a toggled value lands in.
type Mode string

// Filter modes.
const (
	ModeInclude Mode = "include"
	ModeExclude Mode = "exclude"
)

// ParseMode validates a filter mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeInclude:
		return ModeInclude, nil
	case ModeExclude:
		return ModeExclude, nil
	}
	return "", clierr.Newf(clierr.InvalidFilterMode, "invalid filter mode %q (want include or exclude)", s).
		WithDetails(map[string]any{"input": s})
}

// Criteria is the include/exclude state of one dimension. Included and
// Excluded are kept disjoint by every mutation.
type Criteria struct {
	Included []string `yaml:"included,omitempty" json:"included"`
	Excluded []string `yaml:"excluded,omitempty" json:"excluded"`
	Mode     Mode     `yaml:"mode,omitempty" json:"mode"`
}

// CurrentMode returns the mode, treating the zero value as include.
func (c *Criteria) CurrentMode() Mode {
	if c.Mode == ModeExclude {
		return ModeExclude
	}
	return ModeInclude
}

// Toggle flips v: a value in either set is removed from it, otherwise it is
// added to the set named by the current mode.
func (c *Criteria) Toggle(v string) {
	if i := slices.Index(c.Included, v); i >= 0 {
		c.Included = slices.Delete(c.Included, i, i+1)
		return
	}
	if i := slices.Index(c.Excluded, v); i >= 0 {
		c.Excluded = slices.Delete(c.Excluded, i, i+1)
		return
	}
	if c.CurrentMode() == ModeExclude {
		c.Excluded = append(c.Excluded, v)
	} else {
		c.Included = append(c.Included, v)
	}
}

// SetMode changes where future toggles land. Existing sets are untouched.
func (c *Criteria) SetMode(m Mode) {
	c.Mode = m
}

// SelectAll puts every value into the current mode's set, or empties that
// set when it already holds all of them.
func (c *Criteria) SelectAll(values []string) {
	target := &c.Included
	other := &c.Excluded
	if c.CurrentMode() == ModeExclude {
		target, other = other, target
	}

	if len(values) > 0 && containsAll(*target, values) {
		*target = nil
		return
	}
	*target = slices.Clone(values)
	*other = slices.DeleteFunc(*other, func(v string) bool {
		return slices.Contains(values, v)
	})
}

// Clear empties both sets and resets the mode to include.
func (c *Criteria) Clear() {
	*c = Criteria{}
}

// Normalize restores the invariants a hand-edited file may break: each set
// holds a value once, and a value in both sets stays only in Included.
func (c *Criteria) Normalize() {
	c.Included = uniq(c.Included)
	c.Excluded = slices.DeleteFunc(uniq(c.Excluded), func(v string) bool {
		return slices.Contains(c.Included, v)
	})
	if c.Mode != ModeInclude && c.Mode != ModeExclude {
		c.Mode = ""
	}
}

func uniq(values []string) []string {
	var out []string
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// Unconstrained reports whether both sets are empty.
func (c *Criteria) Unconstrained() bool {
	return len(c.Included) == 0 && len(c.Excluded) == 0
}

// Matches applies the dimension rule to a present value.
func (c *Criteria) Matches(v string) bool {
	if c.Unconstrained() {
		return true
	}
	if len(c.Included) > 0 && !slices.Contains(c.Included, v) {
		return false
	}
	if len(c.Excluded) > 0 && slices.Contains(c.Excluded, v) {
		return false
	}
	return true
}

// MatchesOptional is Matches for attributes that may be absent. An absent
// value only passes an unconstrained dimension.
func (c *Criteria) MatchesOptional(v string) bool {
	if c.Unconstrained() {
		return true
	}
	if v == "" {
		return false
	}
	return c.Matches(v)
}

// Count returns the number of selected values in both sets.
func (c *Criteria) Count() int {
	return len(c.Included) + len(c.Excluded)
}

func containsAll(set, values []string) bool {
	for _, v := range values {
		if !slices.Contains(set, v) {
			return false
		}
	}
	return true
}

// Filters is the filter criteria store: one Criteria per dimension.
type Filters struct {
	Assignee Criteria `yaml:"assignee,omitempty" json:"assignee"`
	Client   Criteria `yaml:"client,omitempty" json:"client"`
	Status   Criteria `yaml:"status,omitempty" json:"status"`
	Priority Criteria `yaml:"priority,omitempty" json:"priority"`
	List     Criteria `yaml:"list,omitempty" json:"list"`
}

// Get returns the criteria of a dimension. Unknown dimensions yield nil.
func (f *Filters) Get(d Dimension) *Criteria {
	switch d {
	case DimAssignee:
		return &f.Assignee
	case DimClient:
		return &f.Client
	case DimStatus:
		return &f.Status
	case DimPriority:
		return &f.Priority
	case DimList:
		return &f.List
	}
	return nil
}

// Normalize normalizes the criteria of every dimension.
func (f *Filters) Normalize() {
	for _, d := range Dimensions() {
		f.Get(d).Normalize()
	}
}

// Toggle flips v in dimension d.
func (f *Filters) Toggle(d Dimension, v string) {
	if c := f.Get(d); c != nil {
		c.Toggle(v)
	}
}

// SetMode sets the toggle mode of dimension d.
func (f *Filters) SetMode(d Dimension, m Mode) {
	if c := f.Get(d); c != nil {
		c.SetMode(m)
	}
}

// SelectAll applies Criteria.SelectAll to dimension d.
func (f *Filters) SelectAll(d Dimension, values []string) {
	if c := f.Get(d); c != nil {
		c.SelectAll(values)
	}
}

// Clear resets every dimension.
func (f *Filters) Clear() {
	*f = Filters{}
}

// ActiveCount returns the number of selected values across all dimensions.
func (f *Filters) ActiveCount() int {
	n := 0
	for _, d := range Dimensions() {
		n += f.Get(d).Count()
	}
	return n
}
