package quicgo

import (
	"errors"
	"fmt"
	"net"

	"github.com/OkutaniDaichi0106/quiclistener/quic"
	quicgo_quicgo "github.com/quic-go/quic-go"
)

// wrapListenerError maps quic-go listener shutdown errors onto quic.ErrListenerClosed.
// Connection and stream errors are not passed through here; the quic package
// aliases those types.
func wrapListenerError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, quicgo_quicgo.ErrServerClosed), errors.Is(err, net.ErrClosed):
		return fmt.Errorf("%w: %w", quic.ErrListenerClosed, err)
	default:
		return err
	}
}
