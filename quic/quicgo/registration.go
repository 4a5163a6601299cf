package quicgo

import (
	"context"
	"crypto/tls"
	"errors"
	"sync"

	"github.com/OkutaniDaichi0106/quiclistener/quic"
)

var _ quic.OpenRegistrationFunc = OpenRegistration

// OpenRegistration opens a registration backed by quic-go.
func OpenRegistration(name string) (quic.Registration, error) {
	if name == "" {
		return nil, quic.ErrInvalidRegistrationName
	}

	return &registration{
		name:     name,
		sessions: make(map[*session]struct{}),
	}, nil
}

var _ quic.Registration = (*registration)(nil)

type registration struct {
	name string

	mu       sync.Mutex
	closed   bool
	configs  []*securityConfig
	sessions map[*session]struct{}
}

func (r *registration) CreateSecurityConfig(ctx context.Context, cert tls.Certificate) (quic.SecurityConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(cert.Certificate) == 0 || cert.PrivateKey == nil {
		return nil, quic.ErrInvalidCertificate
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, quic.ErrRegistrationClosed
	}

	sc := newSecurityConfig(cert)
	r.configs = append(r.configs, sc)

	return sc, nil
}

// currentSecurityConfig returns the most recently created security config
// that is still open, or nil.
func (r *registration) currentSecurityConfig() *securityConfig {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.configs) - 1; i >= 0; i-- {
		if !r.configs[i].closed.Load() {
			return r.configs[i]
		}
	}

	return nil
}

func (r *registration) OpenSession(alpn string) (quic.Session, error) {
	if alpn == "" {
		return nil, quic.ErrInvalidALPN
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, quic.ErrRegistrationClosed
	}

	sess := newSession(r, alpn)
	r.sessions[sess] = struct{}{}

	return sess, nil
}

func (r *registration) removeSession(sess *session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sess)
}

func (r *registration) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true

	sessions := make([]*session, 0, len(r.sessions))
	for sess := range r.sessions {
		sessions = append(sessions, sess)
	}
	r.mu.Unlock()

	var errs []error
	for _, sess := range sessions {
		errs = append(errs, sess.Close())
	}

	return errors.Join(errs...)
}
