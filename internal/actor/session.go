package actor

import (
	"github.com/google/uuid"
)

// outbound buffer per session; a session that falls this far behind is
// treated as gone and evicted
const sendBufferSize = 64

// Session is one live connection. Path, Username and Admin are fixed at
// accept time and never re-derived; the actor is the only writer of the
// outbound channel and the only one allowed to close it.
type Session struct {
	ID       string
	Path     string
	Username string
	Admin    bool

	send chan []byte
}

// NewSession creates a session for a connection viewing path. The admin flag
// must already be computed from the resolved username.
func NewSession(path, username string, admin bool) *Session {
	return &Session{
		ID:       uuid.NewString(),
		Path:     path,
		Username: username,
		Admin:    admin,
		send:     make(chan []byte, sendBufferSize),
	}
}

// Outbound returns the channel the transport's write pump drains. The
// channel is closed when the session is unregistered or evicted.
func (s *Session) Outbound() <-chan []byte {
	return s.send
}

// trySend queues a frame without blocking. A full buffer reports failure so
// the caller can evict; the actor never waits on a stalled peer.
func (s *Session) trySend(data []byte) bool {
	select {
	case s.send <- data:
		return true
	default:
		return false
	}
}
