package transport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/OkutaniDaichi0106/quiclistener/quic"
	"github.com/OkutaniDaichi0106/quiclistener/quic/quicgo"
)

// ConnectionListener accepts QUIC connections on one endpoint.
//
// The lifecycle is created → bound → accepting → stopping → disposed.
// Bind opens the native resources, Accept pulls connections, Unbind stops
// the native listener and lets Accept drain, and Close releases everything.
// Unbind and Close are idempotent and share a single shutdown routine.
type ConnectionListener struct {
	/*
	 * Transport options
	 */
	Options *Options

	/*
	 * Endpoint to listen on
	 */
	Endpoint *net.UDPAddr

	/*
	 * Native registration
	 * If nil, quicgo.OpenRegistration is used.
	 */
	OpenRegistration quic.OpenRegistrationFunc

	/*
	 * Logger
	 */
	Logger *slog.Logger

	initOnce sync.Once

	state atomic.Int32

	// lifecycleMu serializes Bind, the shutdown routine and the release of
	// native resources.
	lifecycleMu  sync.Mutex
	options      *Options
	registration quic.Registration
	security     atomic.Pointer[securityContext]
	session      quic.Session
	listener     quic.Listener

	queue *connectionQueue

	shutdownOnce sync.Once
	shutdownDone chan struct{}
	shutdownErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewConnectionListener returns an unbound listener for endpoint.
func NewConnectionListener(opts *Options, endpoint *net.UDPAddr, logger *slog.Logger) *ConnectionListener {
	return &ConnectionListener{
		Options:  opts,
		Endpoint: endpoint,
		Logger:   logger,
	}
}

// Listen creates a listener for endpoint and binds it.
func Listen(ctx context.Context, opts *Options, endpoint *net.UDPAddr, logger *slog.Logger) (*ConnectionListener, error) {
	ln := NewConnectionListener(opts, endpoint, logger)
	if err := ln.Bind(ctx); err != nil {
		return nil, err
	}
	return ln, nil
}

func (l *ConnectionListener) init() {
	l.initOnce.Do(func() {
		l.queue = newConnectionQueue()
		l.shutdownDone = make(chan struct{})

		if l.OpenRegistration == nil {
			l.OpenRegistration = quicgo.OpenRegistration
		}

		if l.Logger != nil {
			if l.Endpoint != nil {
				l.Logger = l.Logger.With("endpoint", l.Endpoint.String())
			}
			l.Logger.Debug("initialized connection listener")
		}
	})
}

// State returns the current lifecycle state.
func (l *ConnectionListener) State() State {
	return State(l.state.Load())
}

// Addr returns the bound address, or nil when the listener is not bound.
func (l *ConnectionListener) Addr() net.Addr {
	l.lifecycleMu.Lock()
	defer l.lifecycleMu.Unlock()

	if l.listener == nil {
		return nil
	}
	return l.listener.Addr()
}

// Bind opens the native registration, security config, session and listener,
// in that order, and starts the listener. If any step fails, everything
// opened so far is released, the listener is left disposed and a
// *SetupError naming the step is returned.
func (l *ConnectionListener) Bind(ctx context.Context) error {
	l.init()

	l.lifecycleMu.Lock()
	defer l.lifecycleMu.Unlock()

	switch l.State() {
	case StateCreated:
	case StateStopping:
		return ErrListenerStopped
	case StateDisposed:
		return ErrListenerDisposed
	default:
		return ErrAlreadyBound
	}

	logger := l.Logger

	if err := l.bind(ctx); err != nil {
		if logger != nil {
			logger.Error("failed to bind listener", "error", err)
		}
		l.state.Store(int32(StateDisposed))
		l.releaseResources()
		return err
	}

	if !l.state.CompareAndSwap(int32(StateCreated), int32(StateBound)) {
		// Unbind or Close ran while binding; the shutdown routine takes over.
		if l.State() == StateDisposed {
			return ErrListenerDisposed
		}
		return ErrListenerStopped
	}

	if logger != nil {
		logger.Info("listener bound",
			"address", l.listener.Addr(),
			"alpn", l.options.ALPN,
		)
	}

	return nil
}

func (l *ConnectionListener) bind(ctx context.Context) error {
	if err := l.Options.Validate(); err != nil {
		return &SetupError{Op: OpValidateOptions, Err: err}
	}
	if l.Endpoint == nil {
		return &SetupError{Op: OpValidateOptions, Err: errors.Join(ErrInvalidOptions, errors.New("nil endpoint"))}
	}

	opts := l.Options.Clone()
	if !opts.hasCertificate() {
		if err := opts.LoadCertificate(); err != nil {
			return &SetupError{Op: OpLoadCertificate, Err: err}
		}
	}
	l.options = opts

	reg, err := l.OpenRegistration(opts.registrationName())
	if err != nil {
		return &SetupError{Op: OpOpenRegistration, Err: err}
	}
	l.registration = reg

	config, err := reg.CreateSecurityConfig(ctx, opts.Certificate)
	if err != nil {
		return &SetupError{Op: OpCreateSecurityConfig, Err: err}
	}
	l.security.Store(newSecurityContext(config))

	sess, err := reg.OpenSession(opts.ALPN)
	if err != nil {
		return &SetupError{Op: OpOpenSession, Err: err}
	}
	l.session = sess

	ln, err := sess.OpenListener(l.handleListenerEvent)
	if err != nil {
		return &SetupError{Op: OpOpenListener, Err: err}
	}
	l.listener = ln

	if err := sess.SetIdleTimeout(opts.idleTimeout()); err != nil {
		return &SetupError{Op: OpSetIdleTimeout, Err: err}
	}
	if err := sess.SetPeerBidiStreamCount(opts.maxBidirectionalStreamCount()); err != nil {
		return &SetupError{Op: OpSetBidiStreamCount, Err: err}
	}
	if err := sess.SetPeerUnidiStreamCount(opts.maxUnidirectionalStreamCount()); err != nil {
		return &SetupError{Op: OpSetUnidiStreamCount, Err: err}
	}

	if err := ln.Start(l.Endpoint); err != nil {
		return &SetupError{Op: OpStartListener, Err: err}
	}

	return nil
}

// Accept waits for and returns the next connection.
//
// Once the listener is unbound and every queued connection was delivered,
// Accept returns io.EOF, repeatedly, until the listener is closed. After
// Close it fails with ErrListenerDisposed without blocking. When ctx is done
// Accept returns ctx.Err() and leaves queued connections in place.
func (l *ConnectionListener) Accept(ctx context.Context) (*Connection, error) {
	l.init()

	switch l.State() {
	case StateDisposed:
		return nil, ErrListenerDisposed
	case StateCreated:
		return nil, ErrListenerNotBound
	}

	l.state.CompareAndSwap(int32(StateBound), int32(StateAccepting))

	conn, err := l.queue.Dequeue(ctx)

	if l.State() == StateDisposed {
		if conn != nil {
			conn.CloseWithError(ListenerDisposedErrorCode, "listener disposed")
		}
		return nil, ErrListenerDisposed
	}

	if err != nil {
		if errors.Is(err, errQueueCompleted) {
			return nil, io.EOF
		}
		return nil, err
	}

	if l.Logger != nil {
		l.Logger.Debug("accepted a new connection",
			"connection_id", conn.ID(),
			"remote_address", conn.RemoteAddr(),
		)
	}

	return conn, nil
}

// Unbind stops accepting new connections. Connections already queued stay
// available to Accept, which reports io.EOF once they are drained.
// ctx bounds the wait for the native listener to stop.
func (l *ConnectionListener) Unbind(ctx context.Context) error {
	l.init()

	for {
		s := l.State()
		if s == StateStopping || s == StateDisposed {
			break
		}
		if l.state.CompareAndSwap(int32(s), int32(StateStopping)) {
			if l.Logger != nil {
				l.Logger.Info("unbinding listener")
			}
			break
		}
	}

	return l.shutdown(ctx)
}

// shutdown stops the native listener, which waits for callbacks in flight,
// and then completes the queue. It runs once; later calls wait for it.
func (l *ConnectionListener) shutdown(ctx context.Context) error {
	l.shutdownOnce.Do(func() {
		go func() {
			defer close(l.shutdownDone)

			l.lifecycleMu.Lock()
			ln := l.listener
			var err error
			if ln != nil {
				err = ln.Stop()
			}
			l.lifecycleMu.Unlock()

			l.queue.Complete()
			l.shutdownErr = err
		}()
	})

	select {
	case <-l.shutdownDone:
		return l.shutdownErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disposes the listener. It runs the shutdown routine unless Unbind
// already did, closes connections that were never accepted and releases the
// native listener, session, security config and registration in that order.
// Calling Close more than once returns the result of the first call.
func (l *ConnectionListener) Close() error {
	l.init()

	l.closeOnce.Do(func() {
		l.state.Store(int32(StateDisposed))

		errs := []error{l.shutdown(context.Background())}

		discarded := l.queue.Drain()
		for _, conn := range discarded {
			conn.CloseWithError(ListenerDisposedErrorCode, "listener disposed")
		}

		l.lifecycleMu.Lock()
		errs = append(errs, l.releaseResources())
		l.lifecycleMu.Unlock()

		l.closeErr = errors.Join(errs...)

		if l.Logger != nil {
			l.Logger.Info("listener disposed",
				"discarded_connections", len(discarded),
			)
			if l.closeErr != nil {
				l.Logger.Error("failed to release native resources", "error", l.closeErr)
			}
		}
	})

	return l.closeErr
}

// releaseResources releases native resources in reverse creation order.
// Each resource is released at most once. The security config itself is
// closed when the last connection referring to it is closed.
// The caller must hold lifecycleMu.
func (l *ConnectionListener) releaseResources() error {
	var errs []error

	if l.listener != nil {
		errs = append(errs, l.listener.Close())
		l.listener = nil
	}
	if l.session != nil {
		errs = append(errs, l.session.Close())
		l.session = nil
	}
	if security := l.security.Swap(nil); security != nil {
		errs = append(errs, security.release())
	}
	if l.registration != nil {
		errs = append(errs, l.registration.Close())
		l.registration = nil
	}

	return errors.Join(errs...)
}
