package quicgo

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net"
	"testing"
	"time"

	"github.com/OkutaniDaichi0106/quiclistener/quic"
	quicgo_quicgo "github.com/quic-go/quic-go"
	"github.com/stretchr/testify/require"
)

func generateCertificate(t *testing.T) tls.Certificate {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
		DNSNames:     []string{"localhost"},
		IPAddresses:  []net.IP{net.IPv4(127, 0, 0, 1)},
		NotBefore:    time.Now().Add(-time.Minute),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)

	return tls.Certificate{
		Certificate: [][]byte{der},
		PrivateKey:  key,
	}
}

func loopback() *net.UDPAddr {
	return &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}
}

func dial(ctx context.Context, addr net.Addr, alpn string) (*quicgo_quicgo.Conn, error) {
	tlsConf := &tls.Config{
		InsecureSkipVerify: true,
		NextProtos:         []string{alpn},
		ServerName:         "localhost",
	}
	return quicgo_quicgo.DialAddr(ctx, addr.String(), tlsConf, &quicgo_quicgo.Config{})
}

// openListener opens a registration, security config, session and listener
// wired to cb, and registers their release with t.Cleanup.
func openListener(t *testing.T, alpn string, cb quic.ListenerCallback) (quic.Registration, quic.SecurityConfig, quic.Session, quic.Listener) {
	t.Helper()

	reg, err := OpenRegistration("test")
	require.NoError(t, err)
	t.Cleanup(func() { reg.Close() })

	sc, err := reg.CreateSecurityConfig(context.Background(), generateCertificate(t))
	require.NoError(t, err)

	sess, err := reg.OpenSession(alpn)
	require.NoError(t, err)

	ln, err := sess.OpenListener(cb)
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	return reg, sc, sess, ln
}
