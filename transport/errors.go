package transport

import (
	"errors"

	"github.com/OkutaniDaichi0106/quiclistener/quic"
)

var (
	// ErrListenerDisposed is returned by operations on a closed listener.
	ErrListenerDisposed = errors.New("transport: listener disposed")

	// ErrListenerStopped is returned by Bind after the listener was unbound.
	ErrListenerStopped = errors.New("transport: listener stopped")

	// ErrListenerNotBound is returned by Accept before Bind succeeded.
	ErrListenerNotBound = errors.New("transport: listener not bound")

	// ErrAlreadyBound is returned when Bind is called on a bound listener.
	ErrAlreadyBound = errors.New("transport: listener already bound")

	// ErrInvalidOptions is returned when the options cannot be used to bind.
	ErrInvalidOptions = errors.New("transport: invalid options")

	errQueueCompleted = errors.New("transport: connection queue completed")
)

// Setup steps reported by SetupError.
const (
	OpValidateOptions      = "validate options"
	OpLoadCertificate      = "load certificate"
	OpOpenRegistration     = "open registration"
	OpCreateSecurityConfig = "create security config"
	OpOpenSession          = "open session"
	OpOpenListener         = "open listener"
	OpSetIdleTimeout       = "set idle timeout"
	OpSetBidiStreamCount   = "set bidirectional stream count"
	OpSetUnidiStreamCount  = "set unidirectional stream count"
	OpStartListener        = "start listener"
)

// SetupError reports the native setup step that made Bind fail.
type SetupError struct {
	Op  string
	Err error
}

func (e *SetupError) Error() string {
	return "transport: " + e.Op + ": " + e.Err.Error()
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// ListenerDisposedErrorCode is the application error code used to close
// connections that are discarded when the listener is disposed.
const ListenerDisposedErrorCode quic.ApplicationErrorCode = 0x1
