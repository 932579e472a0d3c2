// Package view holds the chart's session state and derives the render
// configuration from it
package view

import (
	"strings"

	"github.com/StudioSol/set"
	"github.com/raykavin/chainpulse/pkg/core"
)

// VisibilitySet is the immutable set of series currently drawn. The zero
// value is the empty set, which is a valid display state.
type VisibilitySet struct {
	items *set.LinkedHashSetString
}

// NewVisibility builds a set from the given ids, ignoring unknown ones
func NewVisibility(ids ...core.MetricID) VisibilitySet {
	items := set.NewLinkedHashSetString()
	for _, id := range ids {
		if id.Valid() {
			items.Add(string(id))
		}
	}
	return VisibilitySet{items: items}
}

// AllVisible returns the initial set with every series
func AllVisible() VisibilitySet {
	return NewVisibility(core.MetricIDs()...)
}

// Has reports whether the series is visible
func (v VisibilitySet) Has(id core.MetricID) bool {
	return v.items != nil && v.items.InArray(string(id))
}

// Len returns the number of visible series
func (v VisibilitySet) Len() int {
	if v.items == nil {
		return 0
	}
	return v.items.Length()
}

// Toggle returns a new set with the membership of id flipped. Unknown ids
// leave the membership unchanged.
func (v VisibilitySet) Toggle(id core.MetricID) VisibilitySet {
	members := v.Members()
	if !id.Valid() {
		return NewVisibility(members...)
	}

	if v.Has(id) {
		next := NewVisibility(members...)
		next.items.Remove(string(id))
		return next
	}

	return NewVisibility(append(members, id)...)
}

// Members returns the visible ids in display order
func (v VisibilitySet) Members() []core.MetricID {
	members := make([]core.MetricID, 0, len(core.MetricIDs()))
	for _, id := range core.MetricIDs() {
		if v.Has(id) {
			members = append(members, id)
		}
	}
	return members
}

// Hidden returns the ids not in the set, in display order
func (v VisibilitySet) Hidden() []core.MetricID {
	hidden := make([]core.MetricID, 0)
	for _, id := range core.MetricIDs() {
		if !v.Has(id) {
			hidden = append(hidden, id)
		}
	}
	return hidden
}

// Equal reports whether both sets hold the same members
func (v VisibilitySet) Equal(other VisibilitySet) bool {
	return v.String() == other.String()
}

func (v VisibilitySet) String() string {
	return joinIDs(v.Members())
}

// ParseHidden builds the set that shows everything except the listed ids
// (comma separated). Unknown ids are reported as an error.
func ParseHidden(list string) (VisibilitySet, error) {
	visible := AllVisible()
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		id := core.MetricID(name)
		if !id.Valid() {
			return VisibilitySet{}, wrapUnknown(name)
		}
		if visible.Has(id) {
			visible = visible.Toggle(id)
		}
	}
	return visible, nil
}

func joinIDs(ids []core.MetricID) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return strings.Join(names, ",")
}
