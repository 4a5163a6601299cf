package quic

import (
	"context"
	"io"
	"time"

	"github.com/quic-go/quic-go"
)

// Stream is a bidirectional stream of an accepted connection.
type Stream interface {
	SendStream
	ReceiveStream
	SetDeadline(time.Time) error
}

// SendStream is the sending half of a stream.
type SendStream interface {
	io.Writer
	io.Closer

	StreamID() StreamID

	// CancelWrite aborts sending with the given error code.
	CancelWrite(StreamErrorCode)

	SetWriteDeadline(time.Time) error

	// Context is canceled once the send side is closed.
	Context() context.Context
}

// ReceiveStream is the receiving half of a stream.
type ReceiveStream interface {
	io.Reader

	StreamID() StreamID

	// CancelRead aborts receiving with the given error code.
	CancelRead(StreamErrorCode)

	SetReadDeadline(time.Time) error
}

// StreamID uniquely identifies a stream within a connection.
type StreamID = quic.StreamID
