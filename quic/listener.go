package quic

import (
	"net"
)

// Listener produces listener events for one endpoint.
type Listener interface {
	// Start binds the listener to addr and begins reporting events.
	// Starting an already started listener fails with ErrListenerStarted.
	Start(addr *net.UDPAddr) error

	// Addr returns the bound network address, or nil before Start.
	Addr() net.Addr

	// Stop stops reporting events. It returns once every callback
	// invocation in progress has returned.
	Stop() error

	// Close stops the listener and releases its socket.
	Close() error
}

// ListenerCallback handles a listener event.
// It is invoked on transport-owned goroutines and must neither block nor panic.
type ListenerCallback func(ev *ListenerEvent) Status

// ListenerEventType identifies the kind of a ListenerEvent.
type ListenerEventType int

const (
	// ListenerEventNewConnection reports a connection whose handshake is in progress.
	ListenerEventNewConnection ListenerEventType = iota

	// ListenerEventStopComplete reports that the listener has stopped.
	ListenerEventStopComplete
)

var listenerEventTypeTexts = map[ListenerEventType]string{
	ListenerEventNewConnection: "NEW_CONNECTION",
	ListenerEventStopComplete:  "STOP_COMPLETE",
}

func (t ListenerEventType) String() string {
	if text, ok := listenerEventTypeTexts[t]; ok {
		return text
	}
	return "UNKNOWN"
}

// ListenerEvent is the descriptor passed to a ListenerCallback.
type ListenerEvent struct {
	Type ListenerEventType

	// NewConnection is set for ListenerEventNewConnection.
	NewConnection *NewConnectionEvent
}

// NewConnectionEvent carries a newly arrived connection.
type NewConnectionEvent struct {
	Info NewConnectionInfo

	// Connection is the native connection. Ownership passes to the callback
	// when it returns StatusSuccess.
	Connection Connection

	// SecurityConfig must be assigned by the callback before it returns
	// StatusSuccess. The transport completes the handshake with it.
	//
	// The callback owns this check: it must assign a config created by the
	// same Registration and keep it open while it holds the connection. The
	// transport only inspects the config after the callback returned, and
	// closes a connection whose config is missing, foreign or closed even
	// though the callback already took ownership of it.
	SecurityConfig SecurityConfig
}

// NewConnectionInfo describes the handshake of a new connection.
type NewConnectionInfo struct {
	ServerName         string
	NegotiatedProtocol string
	LocalAddr          net.Addr
	RemoteAddr         net.Addr
}
