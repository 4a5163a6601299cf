package quic

import (
	"context"
	"net"

	"github.com/quic-go/quic-go"
)

// Connection is a native QUIC connection handed over by a listener.
type Connection interface {
	// AcceptStream waits for and accepts the next incoming bidirectional stream.
	AcceptStream(ctx context.Context) (Stream, error)

	// AcceptUniStream waits for and accepts the next incoming unidirectional stream.
	AcceptUniStream(ctx context.Context) (ReceiveStream, error)

	// CloseWithError closes the connection with an error code and message.
	CloseWithError(code ApplicationErrorCode, msg string) error

	// ConnectionState returns the current state of the connection.
	ConnectionState() ConnectionState

	// Context is canceled when the connection is closed.
	Context() context.Context

	LocalAddr() net.Addr

	// OpenStream opens a new bidirectional stream without blocking.
	OpenStream() (Stream, error)

	// OpenStreamSync opens a new bidirectional stream, blocking until the peer allows it.
	OpenStreamSync(ctx context.Context) (Stream, error)

	// OpenUniStream opens a new unidirectional stream without blocking.
	OpenUniStream() (SendStream, error)

	// OpenUniStreamSync opens a new unidirectional stream, blocking until the peer allows it.
	OpenUniStreamSync(ctx context.Context) (SendStream, error)

	RemoteAddr() net.Addr
}

// ConnectionState holds information about the QUIC connection state.
type ConnectionState = quic.ConnectionState
