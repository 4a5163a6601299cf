package quicgo

import (
	"crypto/tls"
	"sync/atomic"

	"github.com/OkutaniDaichi0106/quiclistener/quic"
)

var _ quic.SecurityConfig = (*securityConfig)(nil)

type securityConfig struct {
	tlsConfig *tls.Config
	closed    atomic.Bool
}

func newSecurityConfig(cert tls.Certificate) *securityConfig {
	return &securityConfig{
		tlsConfig: &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS13,
		},
	}
}

func (sc *securityConfig) TLSConfig() *tls.Config {
	return sc.tlsConfig
}

// forALPN returns a copy of the TLS configuration restricted to alpn.
func (sc *securityConfig) forALPN(alpn string) *tls.Config {
	conf := sc.tlsConfig.Clone()
	conf.NextProtos = []string{alpn}
	return conf
}

func (sc *securityConfig) Close() error {
	sc.closed.Store(true)
	return nil
}
