package transport

import (
	"github.com/OkutaniDaichi0106/quiclistener/quic"
)

// handleListenerEvent is the callback registered with the native listener.
// It runs on transport goroutines, possibly concurrently, and only touches
// the queue and the security context. It never blocks and never logs.
func (l *ConnectionListener) handleListenerEvent(ev *quic.ListenerEvent) (status quic.Status) {
	defer func() {
		if r := recover(); r != nil {
			status = quic.StatusInternalError
		}
	}()

	if ev == nil {
		return quic.StatusInvalidParameter
	}

	switch ev.Type {
	case quic.ListenerEventNewConnection:
		return l.handleNewConnection(ev.NewConnection)
	default:
		return quic.StatusInternalError
	}
}

func (l *ConnectionListener) handleNewConnection(ev *quic.NewConnectionEvent) quic.Status {
	if ev == nil || ev.Connection == nil {
		return quic.StatusInvalidParameter
	}

	security := l.security.Load()
	if security == nil || !security.acquire() {
		return quic.StatusInvalidState
	}

	// The reference belongs to the connection only once it is queued.
	queued := false
	defer func() {
		if !queued {
			ev.SecurityConfig = nil
			security.release()
		}
	}()

	conn := newConnection(ev.Connection, ev.Info, security)
	ev.SecurityConfig = security.config

	if !l.queue.Enqueue(conn) {
		// The listener is shutting down.
		return quic.StatusAborted
	}
	queued = true

	return quic.StatusSuccess
}
