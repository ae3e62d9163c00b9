package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"quanta-tokenomics/internal/domain"
	"quanta-tokenomics/internal/economics"
)

const (
	liveReadLimit    = 4096
	liveWriteTimeout = 10 * time.Second
)

// Live message types.
const (
	MessageSnapshot = "snapshot"
	MessageError    = "error"
)

// LiveEdit is a client message on the live channel.
// Reset restores the defaults and ignores Field and Value.
type LiveEdit struct {
	Field domain.ParamField `json:"field"`
	Value float64           `json:"value"`
	Reset bool              `json:"reset,omitempty"`
}

// LiveMessage is a server message on the live channel.
type LiveMessage struct {
	Type       string             `json:"type"`
	SessionID  string             `json:"sessionId"`
	Simulation *domain.Simulation `json:"simulation,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// handleLive upgrades to a WebSocket session that owns one parameter set.
// Flow:
//  1. Send a snapshot of the defaults
//  2. For each edit, clamp and rebalance the session parameters
//  3. Push the recomputed simulation, or an error that leaves the state unchanged
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		s.logger.Printf("live upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(liveReadLimit)

	sess := &liveSession{id: s.newID(), conn: conn, params: domain.DefaultParameters()}
	s.metrics.LiveSessionOpened()
	defer s.metrics.LiveSessionClosed()
	s.logger.Printf("live session %s opened", sess.id)
	defer s.logger.Printf("live session %s closed", sess.id)

	// 1. Initial snapshot
	if err := s.pushSnapshot(r, sess); err != nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Printf("live session %s read: %v", sess.id, err)
			}
			return
		}

		// 2. Apply edit
		if err := sess.apply(data); err != nil {
			s.metrics.RecordLiveEdit("rejected")
			if err := sess.send(LiveMessage{Type: MessageError, Error: err.Error()}); err != nil {
				return
			}
			continue
		}
		s.metrics.RecordLiveEdit("applied")

		// 3. Recompute
		if err := s.pushSnapshot(r, sess); err != nil {
			return
		}
	}
}

func (s *Server) pushSnapshot(r *http.Request, sess *liveSession) error {
	sim, err := s.runner.Simulate(r.Context(), sess.params)
	if err != nil {
		return sess.send(LiveMessage{Type: MessageError, Error: err.Error()})
	}
	return sess.send(LiveMessage{Type: MessageSnapshot, Simulation: sim})
}

// liveSession is owned by a single connection goroutine.
type liveSession struct {
	id     string
	conn   *websocket.Conn
	params domain.EconomicParameters
}

func (l *liveSession) apply(data []byte) error {
	var edit LiveEdit
	if err := json.Unmarshal(data, &edit); err != nil {
		return fmt.Errorf("%w: decode edit: %v", errBadRequest, err)
	}
	if edit.Reset {
		l.params = domain.DefaultParameters()
		return nil
	}
	if edit.Field == "" {
		return errors.New("edit must name a field")
	}
	next, err := economics.ApplyEdit(l.params, edit.Field, edit.Value)
	if err != nil {
		return err
	}
	l.params = next
	return nil
}

func (l *liveSession) send(msg LiveMessage) error {
	msg.SessionID = l.id
	if err := l.conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout)); err != nil {
		return err
	}
	return l.conn.WriteJSON(msg)
}
