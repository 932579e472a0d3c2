package view

import (
	"fmt"

	"github.com/raykavin/chainpulse/pkg/core"
)

// DisplayMode selects between normalized and raw values
type DisplayMode string

const (
	ModeNormalized DisplayMode = "normalized"
	ModeRaw        DisplayMode = "raw"
)

// Toggle flips the display mode
func (m DisplayMode) Toggle() DisplayMode {
	if m == ModeRaw {
		return ModeNormalized
	}
	return ModeRaw
}

// Normalized reports whether values are drawn on the [0, 1] scale
func (m DisplayMode) Normalized() bool {
	return m != ModeRaw
}

// ParseMode reads a display mode. An empty string selects the default mode.
func ParseMode(value string) (DisplayMode, error) {
	switch DisplayMode(value) {
	case "", ModeNormalized:
		return ModeNormalized, nil
	case ModeRaw:
		return ModeRaw, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrInvalidMode, value)
}

// State is an immutable snapshot of the session's view state
type State struct {
	Visibility VisibilitySet
	Mode       DisplayMode
}

// InitialState shows every series in normalized mode
func InitialState() State {
	return State{
		Visibility: AllVisible(),
		Mode:       ModeNormalized,
	}
}

// ToggleSeries flips the visibility of one series
func (s State) ToggleSeries(id core.MetricID) State {
	return State{
		Visibility: s.Visibility.Toggle(id),
		Mode:       s.Mode,
	}
}

// ToggleMode flips the display mode
func (s State) ToggleMode() State {
	return State{
		Visibility: s.Visibility,
		Mode:       s.Mode.Toggle(),
	}
}

// Key identifies the state, e.g. "raw:price,value"
func (s State) Key() string {
	return fmt.Sprintf("%s:%s", s.Mode, s.Visibility)
}

// Equal reports whether both snapshots describe the same view
func (s State) Equal(other State) bool {
	return s.Mode == other.Mode && s.Visibility.Equal(other.Visibility)
}

// ParseState builds a state from a mode name and a comma separated list of
// hidden series
func ParseState(mode, hidden string) (State, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return State{}, err
	}

	visibility, err := ParseHidden(hidden)
	if err != nil {
		return State{}, err
	}

	return State{Visibility: visibility, Mode: m}, nil
}

// AllStates enumerates every visibility combination in both modes
func AllStates() []State {
	ids := core.MetricIDs()
	states := make([]State, 0, 2<<len(ids))

	for _, mode := range []DisplayMode{ModeNormalized, ModeRaw} {
		for mask := 0; mask < 1<<len(ids); mask++ {
			visible := make([]core.MetricID, 0, len(ids))
			for i, id := range ids {
				if mask&(1<<i) != 0 {
					visible = append(visible, id)
				}
			}
			states = append(states, State{Visibility: NewVisibility(visible...), Mode: mode})
		}
	}

	return states
}

func wrapUnknown(name string) error {
	return fmt.Errorf("%w: %q", core.ErrUnknownMetric, name)
}
