package quicgo

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/OkutaniDaichi0106/quiclistener/quic"
	quicgo_quicgo "github.com/quic-go/quic-go"
)

var _ quic.Session = (*session)(nil)

func newSession(reg *registration, alpn string) *session {
	return &session{
		reg:  reg,
		alpn: alpn,
		config: quicgo_quicgo.Config{
			// HTTP/3 consumers such as WebTransport need QUIC datagrams.
			EnableDatagrams: true,
		},
	}
}

type session struct {
	reg  *registration
	alpn string

	mu       sync.Mutex
	config   quicgo_quicgo.Config
	listener *listener
	closed   bool
}

func (s *session) OpenListener(cb quic.ListenerCallback) (quic.Listener, error) {
	if cb == nil {
		return nil, errors.New("quic: nil listener callback")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, quic.ErrSessionClosed
	}
	if s.listener != nil {
		return nil, quic.ErrListenerExists
	}

	s.listener = newListener(s, cb)

	return s.listener, nil
}

func (s *session) SetIdleTimeout(timeout time.Duration) error {
	if timeout < 0 {
		return fmt.Errorf("quic: negative idle timeout %s", timeout)
	}

	return s.configure(func(c *quicgo_quicgo.Config) {
		c.MaxIdleTimeout = timeout
	})
}

func (s *session) SetPeerBidiStreamCount(count uint16) error {
	return s.configure(func(c *quicgo_quicgo.Config) {
		c.MaxIncomingStreams = streamLimit(count)
	})
}

func (s *session) SetPeerUnidiStreamCount(count uint16) error {
	return s.configure(func(c *quicgo_quicgo.Config) {
		c.MaxIncomingUniStreams = streamLimit(count)
	})
}

// streamLimit converts a peer stream count into quic-go's convention,
// where zero selects the default and a negative value forbids streams.
func streamLimit(count uint16) int64 {
	if count == 0 {
		return -1
	}
	return int64(count)
}

func (s *session) configure(apply func(*quicgo_quicgo.Config)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return quic.ErrSessionClosed
	}
	if s.listener != nil && s.listener.started() {
		return quic.ErrListenerStarted
	}

	apply(&s.config)

	return nil
}

// quicConfig returns a copy of the configuration to start a listener with.
func (s *session) quicConfig() *quicgo_quicgo.Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.config.Clone()
}

func (s *session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	ln := s.listener
	s.mu.Unlock()

	s.reg.removeSession(s)

	if ln != nil {
		return ln.Close()
	}

	return nil
}
