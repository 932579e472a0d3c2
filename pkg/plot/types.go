package plot

import (
	"github.com/raykavin/chainpulse/pkg/core"
	"github.com/raykavin/chainpulse/pkg/view"
)

// stateView is the wire form of a view state
type stateView struct {
	Mode    view.DisplayMode `json:"mode"`
	Visible []core.MetricID  `json:"visible"`
	Hidden  []core.MetricID  `json:"hidden"`
}

func newStateView(state view.State) stateView {
	return stateView{
		Mode:    state.Mode,
		Visible: state.Visibility.Members(),
		Hidden:  state.Visibility.Hidden(),
	}
}

// dataResponse answers /data and the websocket config message
type dataResponse struct {
	Loading bool        `json:"loading"`
	State   stateView   `json:"state"`
	Config  view.Config `json:"config"`
}

// Message types exchanged over a session
const (
	MessageToggleSeries = "toggleSeries"
	MessageToggleMode   = "toggleMode"
	MessageTooltip      = "tooltip"
	MessageConfig       = "config"
	MessageError        = "error"
)

// ClientMessage is a transition or query sent by the browser
type ClientMessage struct {
	Type   string        `json:"type"`
	Series core.MetricID `json:"series,omitempty"`
	Date   string        `json:"date,omitempty"`
}

// ServerMessage represents a message sent over WebSocket
type ServerMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}
