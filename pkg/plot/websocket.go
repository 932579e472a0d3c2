package plot

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/raykavin/chainpulse/pkg/core"
	"github.com/raykavin/chainpulse/pkg/logger"
	"github.com/raykavin/chainpulse/pkg/view"
)

const writeWait = 10 * time.Second

// session is one browser tab. Its state is never shared.
type session struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	stateMu sync.Mutex
	state   view.State
}

func (s *session) State() view.State {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.state
}

func (s *session) send(msg ServerMessage) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteJSON(msg)
}

// SessionManager handles WebSocket connections
type SessionManager struct {
	sync.RWMutex
	sessions map[*websocket.Conn]*session
	upgrader websocket.Upgrader
	log      logger.Logger
	chart    *Chart
}

// NewSessionManager creates a new WebSocket session manager
func NewSessionManager(log logger.Logger, chart *Chart) *SessionManager {
	return &SessionManager{
		sessions: make(map[*websocket.Conn]*session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log:   log,
		chart: chart,
	}
}

// Len returns the number of open sessions
func (m *SessionManager) Len() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.sessions)
}

// HandleWebSocket opens a session. The optional mode and hidden query
// parameters seed its initial state.
func (m *SessionManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	state := view.InitialState()
	if query := r.URL.Query(); query.Get("mode") != "" || query.Get("hidden") != "" {
		parsed, err := stateFromQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		state = parsed
	}

	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.Error("Failed to upgrade connection to WebSocket: ", err)
		return
	}

	s := &session{conn: conn, state: state}

	m.Lock()
	m.sessions[conn] = s
	clientCount := len(m.sessions)
	m.Unlock()

	m.log.Info("Total WebSocket clients: ", clientCount)

	m.transition(s, keepState)
	go m.handleClient(s)
}

// handleClient processes messages from a client until it disconnects
func (m *SessionManager) handleClient(s *session) {
	defer func() {
		m.Lock()
		delete(m.sessions, s.conn)
		m.log.Info("WebSocket client disconnected, remaining: ", len(m.sessions))
		m.Unlock()
		s.conn.Close()
	}()

	s.conn.SetPingHandler(func(string) error {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
		return s.conn.WriteControl(websocket.PongMessage, []byte{}, time.Now().Add(writeWait))
	})

	for {
		var msg ClientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				m.log.Error("WebSocket read error: ", err)
			}
			return
		}

		m.dispatch(s, msg)
	}
}

// dispatch applies one client message to the session
func (m *SessionManager) dispatch(s *session, msg ClientMessage) {
	switch msg.Type {
	case MessageToggleSeries:
		if !msg.Series.Valid() {
			m.sendError(s, wrapUnknownSeries(msg.Series))
			return
		}
		m.transition(s, func(state view.State) view.State {
			return state.ToggleSeries(msg.Series)
		})

	case MessageToggleMode:
		m.transition(s, view.State.ToggleMode)

	case MessageTooltip:
		at, err := parseInstant(msg.Date)
		if err != nil {
			m.sendError(s, "invalid date")
			return
		}

		ds, _ := m.chart.Dataset()
		tooltip, ok := view.BuildTooltip(ds, s.State(), at)
		if !ok {
			return
		}
		m.send(s, ServerMessage{Type: MessageTooltip, Payload: tooltip})

	default:
		m.sendError(s, "unknown message type "+msg.Type)
	}
}

// Refresh pushes the current configuration to every session, e.g. once the
// dataset has loaded
func (m *SessionManager) Refresh() {
	m.RLock()
	sessions := make([]*session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.RUnlock()

	for _, s := range sessions {
		m.transition(s, keepState)
	}
}

// transition applies fn and sends the resulting config while holding the
// session state, so configs reach the browser in state order
func (m *SessionManager) transition(s *session, fn func(view.State) view.State) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	s.state = fn(s.state)
	m.send(s, ServerMessage{Type: MessageConfig, Payload: m.chart.dataResponse(s.state)})
}

func keepState(state view.State) view.State {
	return state
}

func (m *SessionManager) sendError(s *session, reason string) {
	m.send(s, ServerMessage{Type: MessageError, Payload: map[string]string{"error": reason}})
}

func (m *SessionManager) send(s *session, msg ServerMessage) {
	if err := s.send(msg); err != nil {
		m.log.Error("Error sending WebSocket message: ", err)
		s.conn.Close()
	}
}

func wrapUnknownSeries(id core.MetricID) string {
	return core.ErrUnknownMetric.Error() + ": " + string(id)
}
