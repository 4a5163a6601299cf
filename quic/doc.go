// Package quic describes the native QUIC transport that a connection listener
// is built on.
//
// The transport is modelled as a set of nested resource scopes, each owning
// the next one:
//
//   - Registration: a named transport instance. It derives SecurityConfig
//     values from certificates and opens sessions.
//   - Session: scoped to one ALPN identifier. It carries the idle timeout and
//     the peer stream limits, and owns at most one Listener.
//   - Listener: bound to a UDP endpoint. While started it reports listener
//     events to a ListenerCallback.
//
// The callback is invoked by the transport on goroutines it owns, possibly
// concurrently for several handshakes in flight. A callback answers every
// event with a Status. For a new connection it must also assign the
// SecurityConfig used to finish the handshake:
//
//	cb := func(ev *quic.ListenerEvent) quic.Status {
//	    if ev.Type != quic.ListenerEventNewConnection {
//	        return quic.StatusInternalError
//	    }
//	    ev.NewConnection.SecurityConfig = secConfig
//	    conns <- ev.NewConnection.Connection
//	    return quic.StatusSuccess
//	}
//
// # Implementations
//
// The quicgo subpackage implements these interfaces on top of
// github.com/quic-go/quic-go.
//
// Connection, Stream, SendStream and ReceiveStream abstract an accepted
// connection and its streams. Error types are aliases of the quic-go ones.
//
// For more information about QUIC, see RFC 9000:
// https://datatracker.ietf.org/doc/html/rfc9000
package quic
