package quicgo

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"sync"
	"sync/atomic"

	"github.com/OkutaniDaichi0106/quiclistener/quic"
	quicgo_quicgo "github.com/quic-go/quic-go"
)

var errNoSecurityConfig = errors.New("quic: no security config available")

var _ quic.Listener = (*listener)(nil)

func newListener(sess *session, cb quic.ListenerCallback) *listener {
	return &listener{
		sess:     sess,
		callback: cb,
	}
}

// listener drives a quic-go EarlyListener. One goroutine accepts
// connections and every accepted connection is reported to the callback on
// its own goroutine, so callbacks for concurrent handshakes run in parallel.
type listener struct {
	sess     *session
	callback quic.ListenerCallback

	mu        sync.Mutex
	conn      *net.UDPConn
	transport *quicgo_quicgo.Transport
	ln        *quicgo_quicgo.EarlyListener
	cancel    context.CancelFunc
	done      chan struct{}
	closed    bool

	inflight sync.WaitGroup
	running  atomic.Bool
}

func (l *listener) started() bool {
	return l.running.Load()
}

func (l *listener) Start(addr *net.UDPAddr) error {
	if addr == nil {
		return errors.New("quic: nil listen address")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return quic.ErrListenerClosed
	}
	if l.running.Load() {
		return quic.ErrListenerStarted
	}

	if l.transport == nil {
		conn, err := net.ListenUDP("udp", addr)
		if err != nil {
			return err
		}
		l.conn = conn
		l.transport = &quicgo_quicgo.Transport{Conn: conn}
	}

	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS13,
		NextProtos:         []string{l.sess.alpn},
		GetConfigForClient: l.configForClient,
	}

	ln, err := l.transport.ListenEarly(tlsConfig, l.sess.quicConfig())
	if err != nil {
		return wrapListenerError(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.ln = ln
	l.cancel = cancel
	l.done = make(chan struct{})
	l.running.Store(true)

	go l.acceptLoop(ctx, ln, l.done)

	return nil
}

// configForClient selects the TLS configuration for a handshake from the
// registration's current security config.
func (l *listener) configForClient(*tls.ClientHelloInfo) (*tls.Config, error) {
	sc := l.sess.reg.currentSecurityConfig()
	if sc == nil {
		return nil, errNoSecurityConfig
	}
	return sc.forALPN(l.sess.alpn), nil
}

func (l *listener) acceptLoop(ctx context.Context, ln *quicgo_quicgo.EarlyListener, done chan struct{}) {
	defer close(done)

	for {
		conn, err := ln.Accept(ctx)
		if err != nil {
			return
		}

		l.inflight.Add(1)
		go l.dispatch(conn)
	}
}

func (l *listener) dispatch(conn *quicgo_quicgo.Conn) {
	defer l.inflight.Done()

	state := conn.ConnectionState()
	ev := &quic.ListenerEvent{
		Type: quic.ListenerEventNewConnection,
		NewConnection: &quic.NewConnectionEvent{
			Info: quic.NewConnectionInfo{
				ServerName:         state.TLS.ServerName,
				NegotiatedProtocol: state.TLS.NegotiatedProtocol,
				LocalAddr:          conn.LocalAddr(),
				RemoteAddr:         conn.RemoteAddr(),
			},
			Connection: wrapConnection(conn),
		},
	}

	status := l.callback(ev)
	if !status.Succeeded() {
		conn.CloseWithError(quicgo_quicgo.ApplicationErrorCode(quic.ConnectionRefused), status.String())
		return
	}

	// Ownership already passed to the callback; see quic.NewConnectionEvent.
	sc, ok := ev.NewConnection.SecurityConfig.(*securityConfig)
	if !ok || sc.closed.Load() {
		conn.CloseWithError(quicgo_quicgo.ApplicationErrorCode(quic.ConnectionRefused), errNoSecurityConfig.Error())
	}
}

func (l *listener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ln != nil {
		return l.ln.Addr()
	}
	if l.conn != nil {
		return l.conn.LocalAddr()
	}
	return nil
}

func (l *listener) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.stop()
}

func (l *listener) stop() error {
	if !l.running.Load() {
		return nil
	}

	l.cancel()
	err := l.ln.Close()
	<-l.done
	l.inflight.Wait()

	l.ln = nil
	l.running.Store(false)

	if errors.Is(err, quicgo_quicgo.ErrServerClosed) {
		err = nil
	}

	return wrapListenerError(err)
}

func (l *listener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	errs := []error{l.stop()}

	if l.transport != nil {
		errs = append(errs, l.transport.Close())
	}
	if l.conn != nil {
		if err := l.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
