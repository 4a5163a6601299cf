package quic

import (
	"context"
	"crypto/tls"
)

// OpenRegistrationFunc opens a named native registration.
type OpenRegistrationFunc func(name string) (Registration, error)

// Registration is the root scope of the native transport.
// It owns the sessions opened on it.
type Registration interface {
	// CreateSecurityConfig derives a security context from the certificate.
	// The returned SecurityConfig is handed to the transport for every
	// handshake on connections accepted under this registration.
	CreateSecurityConfig(ctx context.Context, cert tls.Certificate) (SecurityConfig, error)

	// OpenSession opens a session for the given ALPN identifier.
	OpenSession(alpn string) (Session, error)

	// Close releases the registration and every session still open on it.
	Close() error
}

// SecurityConfig is the credential context used to complete handshakes.
// It must stay open as long as any connection refers to it.
type SecurityConfig interface {
	// TLSConfig returns the TLS configuration backing the security context.
	// The returned value must be treated as read-only.
	TLSConfig() *tls.Config

	// Close releases the security context.
	Close() error
}
