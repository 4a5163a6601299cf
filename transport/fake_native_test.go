package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/OkutaniDaichi0106/quiclistener/quic"
)

// Calls recorded by fakeNative.
const (
	callOpenRegistration     = "OpenRegistration"
	callCreateSecurityConfig = "CreateSecurityConfig"
	callOpenSession          = "OpenSession"
	callOpenListener         = "OpenListener"
	callSetIdleTimeout       = "SetIdleTimeout"
	callSetPeerBidi          = "SetPeerBidiStreamCount"
	callSetPeerUnidi         = "SetPeerUnidiStreamCount"
	callStartListener        = "StartListener"
	callStopListener         = "StopListener"
	callCloseListener        = "CloseListener"
	callCloseSession         = "CloseSession"
	callCloseSecurityConfig  = "CloseSecurityConfig"
	callCloseRegistration    = "CloseRegistration"
)

var errFakeFailure = errors.New("fake native failure")

// fakeNative is an in-memory native transport. It records every call in
// order and can be told to fail any of them.
type fakeNative struct {
	mu       sync.Mutex
	calls    []string
	failures map[string]error

	registrationName string
	alpn             string
	idleTimeout      time.Duration
	bidiCount        uint16
	unidiCount       uint16

	security *fakeSecurityConfig
	listener *fakeListener

	// When set, OpenRegistration closes entered and waits for release.
	entered chan struct{}
	release chan struct{}
}

func newFakeNative() *fakeNative {
	return &fakeNative{
		failures: make(map[string]error),
	}
}

func (n *fakeNative) failOn(call string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures[call] = errFakeFailure
}

// blockRegistration makes the next OpenRegistration block until the
// returned release channel is closed.
func (n *fakeNative) blockRegistration() (entered <-chan struct{}, release chan<- struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.entered = make(chan struct{})
	n.release = make(chan struct{})
	return n.entered, n.release
}

func (n *fakeNative) record(call string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, call)
	return n.failures[call]
}

func (n *fakeNative) Calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.calls...)
}

func (n *fakeNative) count(call string) int {
	var c int
	for _, got := range n.Calls() {
		if got == call {
			c++
		}
	}
	return c
}

func (n *fakeNative) Listener() *fakeListener {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.listener
}

func (n *fakeNative) openRegistration(name string) (quic.Registration, error) {
	n.mu.Lock()
	entered, release := n.entered, n.release
	n.mu.Unlock()
	if entered != nil {
		close(entered)
		<-release
	}

	if err := n.record(callOpenRegistration); err != nil {
		return nil, err
	}
	n.mu.Lock()
	n.registrationName = name
	n.mu.Unlock()
	return &fakeRegistration{native: n}, nil
}

var _ quic.Registration = (*fakeRegistration)(nil)

type fakeRegistration struct {
	native *fakeNative
}

func (r *fakeRegistration) CreateSecurityConfig(ctx context.Context, cert tls.Certificate) (quic.SecurityConfig, error) {
	if err := r.native.record(callCreateSecurityConfig); err != nil {
		return nil, err
	}
	sc := &fakeSecurityConfig{native: r.native, cert: cert}
	r.native.mu.Lock()
	r.native.security = sc
	r.native.mu.Unlock()
	return sc, nil
}

func (r *fakeRegistration) OpenSession(alpn string) (quic.Session, error) {
	if err := r.native.record(callOpenSession); err != nil {
		return nil, err
	}
	r.native.mu.Lock()
	r.native.alpn = alpn
	r.native.mu.Unlock()
	return &fakeSession{native: r.native}, nil
}

func (r *fakeRegistration) Close() error {
	return r.native.record(callCloseRegistration)
}

var _ quic.SecurityConfig = (*fakeSecurityConfig)(nil)

type fakeSecurityConfig struct {
	native *fakeNative
	cert   tls.Certificate
	closed atomic.Int32
}

func (sc *fakeSecurityConfig) TLSConfig() *tls.Config {
	return &tls.Config{Certificates: []tls.Certificate{sc.cert}}
}

func (sc *fakeSecurityConfig) Close() error {
	sc.closed.Add(1)
	if sc.native == nil {
		return nil
	}
	return sc.native.record(callCloseSecurityConfig)
}

var _ quic.Session = (*fakeSession)(nil)

type fakeSession struct {
	native *fakeNative
}

func (s *fakeSession) OpenListener(cb quic.ListenerCallback) (quic.Listener, error) {
	if err := s.native.record(callOpenListener); err != nil {
		return nil, err
	}
	ln := &fakeListener{native: s.native, cb: cb}
	s.native.mu.Lock()
	s.native.listener = ln
	s.native.mu.Unlock()
	return ln, nil
}

func (s *fakeSession) SetIdleTimeout(timeout time.Duration) error {
	if err := s.native.record(callSetIdleTimeout); err != nil {
		return err
	}
	s.native.mu.Lock()
	s.native.idleTimeout = timeout
	s.native.mu.Unlock()
	return nil
}

func (s *fakeSession) SetPeerBidiStreamCount(count uint16) error {
	if err := s.native.record(callSetPeerBidi); err != nil {
		return err
	}
	s.native.mu.Lock()
	s.native.bidiCount = count
	s.native.mu.Unlock()
	return nil
}

func (s *fakeSession) SetPeerUnidiStreamCount(count uint16) error {
	if err := s.native.record(callSetPeerUnidi); err != nil {
		return err
	}
	s.native.mu.Lock()
	s.native.unidiCount = count
	s.native.mu.Unlock()
	return nil
}

func (s *fakeSession) Close() error {
	return s.native.record(callCloseSession)
}

var _ quic.Listener = (*fakeListener)(nil)

// fakeListener delivers connections to the registered callback on the
// caller's goroutine. Stop waits for deliveries in progress.
type fakeListener struct {
	native *fakeNative
	cb     quic.ListenerCallback

	mu       sync.Mutex
	addr     *net.UDPAddr
	stopped  bool
	inflight sync.WaitGroup
}

func (l *fakeListener) Start(addr *net.UDPAddr) error {
	if err := l.native.record(callStartListener); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.addr = addr
	return nil
}

func (l *fakeListener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.addr == nil {
		return nil
	}
	return l.addr
}

func (l *fakeListener) Stop() error {
	l.mu.Lock()
	l.stopped = true
	l.mu.Unlock()

	l.inflight.Wait()

	return l.native.record(callStopListener)
}

func (l *fakeListener) Close() error {
	return l.native.record(callCloseListener)
}

// deliver reports a new connection to the callback. It returns
// StatusInvalidState without invoking the callback once the listener stopped.
func (l *fakeListener) deliver(conn quic.Connection, info quic.NewConnectionInfo) (quic.Status, *quic.NewConnectionEvent) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return quic.StatusInvalidState, nil
	}
	l.inflight.Add(1)
	l.mu.Unlock()
	defer l.inflight.Done()

	ev := &quic.NewConnectionEvent{
		Info:       info,
		Connection: conn,
	}
	status := l.cb(&quic.ListenerEvent{
		Type:          quic.ListenerEventNewConnection,
		NewConnection: ev,
	})
	return status, ev
}
