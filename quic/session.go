package quic

import "time"

// Session scopes a single ALPN identifier on a Registration.
// Configuration must be applied before the listener is started.
type Session interface {
	// OpenListener opens the session's listener. Events are reported to cb.
	OpenListener(cb ListenerCallback) (Listener, error)

	// SetIdleTimeout sets the duration after which an inactive connection is closed.
	SetIdleTimeout(timeout time.Duration) error

	// SetPeerBidiStreamCount sets how many bidirectional streams a peer may open.
	SetPeerBidiStreamCount(count uint16) error

	// SetPeerUnidiStreamCount sets how many unidirectional streams a peer may open.
	SetPeerUnidiStreamCount(count uint16) error

	// Close releases the session and its listener.
	Close() error
}
