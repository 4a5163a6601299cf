package main

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"flag"
	"io"
	"log/slog"
	"math/big"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OkutaniDaichi0106/quiclistener/quic/quicgo"
	"github.com/OkutaniDaichi0106/quiclistener/transport"
	"github.com/quic-go/quic-go/http3"
	quicgo_webtransportgo "github.com/quic-go/webtransport-go"
	"golang.org/x/sync/errgroup"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:4433", "UDP address to listen on")
	config := flag.String("config", "", "path to a YAML options file")
	alpn := flag.String("alpn", "echo", "ALPN identifier to accept (\"h3\" serves WebTransport)")
	certFile := flag.String("cert", "", "PEM certificate file")
	keyFile := flag.String("key", "", "PEM private key file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(*addr, *config, *alpn, *certFile, *keyFile, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(addr, config, alpn, certFile, keyFile string, logger *slog.Logger) error {
	opts, err := loadOptions(config, alpn, certFile, keyFile)
	if err != nil {
		return err
	}

	endpoint, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := transport.Listen(ctx, opts, endpoint, logger)
	if err != nil {
		return err
	}
	defer ln.Close()

	logger.Info("listening", "address", ln.Addr(), "alpn", opts.ALPN)

	var serve func(ctx context.Context, conn *transport.Connection) error
	switch opts.ALPN {
	case http3.NextProtoH3:
		wt := newWebTransportServer(logger)
		defer wt.Close()
		serve = func(ctx context.Context, conn *transport.Connection) error {
			stop := context.AfterFunc(ctx, func() { conn.Close() })
			defer stop()

			return wt.ServeQUICConn(quicgo.Unwrap(conn.Native()))
		}
	default:
		serve = serveEcho
	}

	g, gctx := errgroup.WithContext(ctx)

	// Unbind once a signal arrives; the accept loop below drains the queue.
	g.Go(func() error {
		<-gctx.Done()

		logger.Info("shutting down")

		unbindCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return ln.Unbind(unbindCtx)
	})

	g.Go(func() error {
		for {
			conn, err := ln.Accept(context.Background())
			if errors.Is(err, io.EOF) || errors.Is(err, transport.ErrListenerDisposed) {
				return nil
			}
			if err != nil {
				return err
			}

			g.Go(func() error {
				defer conn.Close()

				err := serve(gctx, conn)
				if err != nil && gctx.Err() == nil {
					logger.Debug("connection closed",
						"connection_id", conn.ID(),
						"error", err,
					)
				}
				return nil
			})
		}
	})

	return g.Wait()
}

func loadOptions(path, alpn, certFile, keyFile string) (*transport.Options, error) {
	var opts *transport.Options
	if path != "" {
		var err error
		opts, err = transport.LoadOptions(path)
		if err != nil {
			return nil, err
		}
	} else {
		opts = &transport.Options{ALPN: alpn}
	}

	if certFile != "" {
		opts.CertFile = certFile
	}
	if keyFile != "" {
		opts.KeyFile = keyFile
	}

	if opts.CertFile == "" && opts.KeyFile == "" {
		slog.Warn("no certificate configured, using a self-signed certificate")
		cert, err := generateCertificate()
		if err != nil {
			return nil, err
		}
		opts.Certificate = cert
	}

	return opts, nil
}

// serveEcho echoes every bidirectional stream the peer opens.
func serveEcho(ctx context.Context, conn *transport.Connection) error {
	for {
		stream, err := conn.AcceptStream(ctx)
		if err != nil {
			return err
		}

		go func() {
			defer stream.Close()
			io.Copy(stream, stream)
		}()
	}
}

func newWebTransportServer(logger *slog.Logger) *quicgo_webtransportgo.Server {
	mux := http.NewServeMux()

	wt := &quicgo_webtransportgo.Server{
		H3: http3.Server{
			Handler: mux,
		},
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		sess, err := wt.Upgrade(w, r)
		if err != nil {
			logger.Error("failed to upgrade http to webtransport",
				"remote_address", r.RemoteAddr,
				"error", err,
			)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		for {
			stream, err := sess.AcceptStream(r.Context())
			if err != nil {
				return
			}

			go func() {
				defer stream.Close()
				io.Copy(stream, stream)
			}()
		}
	})

	return wt
}

func generateCertificate() (tls.Certificate, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, err
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: "localhost"},
		DNSNames:     []string{"localhost"},
		IPAddresses:  []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(10 * 24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return tls.Certificate{}, err
	}

	return tls.Certificate{
		Certificate: [][]byte{der},
		PrivateKey:  key,
	}, nil
}
