package quicgo

import (
	"context"
	"net"

	"github.com/OkutaniDaichi0106/quiclistener/quic"
	quicgo_quicgo "github.com/quic-go/quic-go"
)

func wrapConnection(conn *quicgo_quicgo.Conn) quic.Connection {
	if conn == nil {
		return nil
	}
	return &connWrapper{
		conn: conn,
	}
}

var _ quic.Connection = (*connWrapper)(nil)

type connWrapper struct {
	conn *quicgo_quicgo.Conn
}

func (wrapper *connWrapper) AcceptStream(ctx context.Context) (quic.Stream, error) {
	stream, err := wrapper.conn.AcceptStream(ctx)
	if err != nil {
		return nil, err
	}
	return &streamWrapper{stream: stream}, nil
}

func (wrapper *connWrapper) AcceptUniStream(ctx context.Context) (quic.ReceiveStream, error) {
	stream, err := wrapper.conn.AcceptUniStream(ctx)
	if err != nil {
		return nil, err
	}
	return &receiveStreamWrapper{stream: stream}, nil
}

func (wrapper *connWrapper) CloseWithError(code quic.ApplicationErrorCode, msg string) error {
	return wrapper.conn.CloseWithError(code, msg)
}

func (wrapper *connWrapper) ConnectionState() quic.ConnectionState {
	return wrapper.conn.ConnectionState()
}

func (wrapper *connWrapper) Context() context.Context {
	return wrapper.conn.Context()
}

func (wrapper *connWrapper) LocalAddr() net.Addr {
	return wrapper.conn.LocalAddr()
}

func (wrapper *connWrapper) OpenStream() (quic.Stream, error) {
	stream, err := wrapper.conn.OpenStream()
	if err != nil {
		return nil, err
	}
	return &streamWrapper{stream: stream}, nil
}

func (wrapper *connWrapper) OpenStreamSync(ctx context.Context) (quic.Stream, error) {
	stream, err := wrapper.conn.OpenStreamSync(ctx)
	if err != nil {
		return nil, err
	}
	return &streamWrapper{stream: stream}, nil
}

func (wrapper *connWrapper) OpenUniStream() (quic.SendStream, error) {
	stream, err := wrapper.conn.OpenUniStream()
	if err != nil {
		return nil, err
	}
	return &sendStreamWrapper{stream: stream}, nil
}

func (wrapper *connWrapper) OpenUniStreamSync(ctx context.Context) (quic.SendStream, error) {
	stream, err := wrapper.conn.OpenUniStreamSync(ctx)
	if err != nil {
		return nil, err
	}
	return &sendStreamWrapper{stream: stream}, nil
}

func (wrapper *connWrapper) RemoteAddr() net.Addr {
	return wrapper.conn.RemoteAddr()
}

// Unwrap returns the quic-go connection behind conn, or nil when conn was
// not produced by this package. Consumers such as an HTTP/3 server use it to
// serve an accepted connection directly.
func Unwrap(conn quic.Connection) *quicgo_quicgo.Conn {
	if wrapper, ok := conn.(*connWrapper); ok {
		return wrapper.conn
	}
	return nil
}
