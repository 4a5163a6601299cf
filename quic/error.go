package quic

import (
	"errors"

	"github.com/quic-go/quic-go"
)

var (
	// ErrListenerStarted is returned when a listener is started twice without
	// an intervening stop, or a session is configured after its listener started.
	ErrListenerStarted = errors.New("quic: listener already started")

	// ErrListenerExists is returned when a session already owns a listener.
	ErrListenerExists = errors.New("quic: session already has a listener")

	// ErrListenerClosed is returned by operations on a closed listener.
	ErrListenerClosed = errors.New("quic: listener closed")

	// ErrSessionClosed is returned by operations on a closed session.
	ErrSessionClosed = errors.New("quic: session closed")

	// ErrRegistrationClosed is returned by operations on a closed registration.
	ErrRegistrationClosed = errors.New("quic: registration closed")

	// ErrInvalidCertificate is returned when a security config cannot be
	// derived from a certificate.
	ErrInvalidCertificate = errors.New("quic: invalid certificate")

	// ErrInvalidALPN is returned when a session is opened without an ALPN identifier.
	ErrInvalidALPN = errors.New("quic: invalid alpn")

	// ErrInvalidRegistrationName is returned for an empty registration name.
	ErrInvalidRegistrationName = errors.New("quic: invalid registration name")
)

// TransportError represents a QUIC transport layer error.
type TransportError = quic.TransportError

// ApplicationError represents an application-level error in QUIC.
type ApplicationError = quic.ApplicationError

// IdleTimeoutError indicates that the connection timed out due to inactivity.
type IdleTimeoutError = quic.IdleTimeoutError

// HandshakeTimeoutError indicates that the handshake did not complete in time.
type HandshakeTimeoutError = quic.HandshakeTimeoutError

// StreamError is returned from stream reads and writes when the peer canceled the stream.
type StreamError = quic.StreamError

type (
	// TransportErrorCode identifies transport-layer protocol errors.
	TransportErrorCode = quic.TransportErrorCode
	// ApplicationErrorCode identifies application-defined errors.
	ApplicationErrorCode = quic.ApplicationErrorCode
	// StreamErrorCode identifies stream-specific errors.
	StreamErrorCode = quic.StreamErrorCode
)

const (
	NoError           TransportErrorCode = quic.NoError
	InternalError     TransportErrorCode = quic.InternalError
	ConnectionRefused TransportErrorCode = quic.ConnectionRefused
)
