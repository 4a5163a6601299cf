package transport

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/OkutaniDaichi0106/quiclistener/quic"
	"github.com/google/uuid"
)

func newConnection(conn quic.Connection, info quic.NewConnectionInfo, security *securityContext) *Connection {
	return &Connection{
		id:       uuid.NewString(),
		conn:     conn,
		info:     info,
		security: security,
	}
}

// Connection is an accepted connection.
// It holds a reference to the listener's security context until it is closed.
type Connection struct {
	id       string
	sequence uint64
	conn     quic.Connection
	info     quic.NewConnectionInfo
	security *securityContext

	closeOnce sync.Once
	closeErr  error
}

// ID returns a unique identifier of the connection.
func (c *Connection) ID() string {
	return c.id
}

// Sequence returns the position of the connection in accept order, starting at 1.
func (c *Connection) Sequence() uint64 {
	return c.sequence
}

// ServerName returns the server name the client asked for.
func (c *Connection) ServerName() string {
	return c.info.ServerName
}

// NegotiatedProtocol returns the ALPN identifier of the connection.
func (c *Connection) NegotiatedProtocol() string {
	return c.info.NegotiatedProtocol
}

func (c *Connection) LocalAddr() net.Addr {
	if c.info.LocalAddr != nil {
		return c.info.LocalAddr
	}
	return c.conn.LocalAddr()
}

func (c *Connection) RemoteAddr() net.Addr {
	if c.info.RemoteAddr != nil {
		return c.info.RemoteAddr
	}
	return c.conn.RemoteAddr()
}

// Context is canceled when the connection is closed.
func (c *Connection) Context() context.Context {
	return c.conn.Context()
}

// Native returns the native connection.
func (c *Connection) Native() quic.Connection {
	return c.conn
}

func (c *Connection) AcceptStream(ctx context.Context) (quic.Stream, error) {
	return c.conn.AcceptStream(ctx)
}

func (c *Connection) AcceptUniStream(ctx context.Context) (quic.ReceiveStream, error) {
	return c.conn.AcceptUniStream(ctx)
}

func (c *Connection) OpenStream() (quic.Stream, error) {
	return c.conn.OpenStream()
}

func (c *Connection) OpenStreamSync(ctx context.Context) (quic.Stream, error) {
	return c.conn.OpenStreamSync(ctx)
}

func (c *Connection) OpenUniStream() (quic.SendStream, error) {
	return c.conn.OpenUniStream()
}

func (c *Connection) OpenUniStreamSync(ctx context.Context) (quic.SendStream, error) {
	return c.conn.OpenUniStreamSync(ctx)
}

// CloseWithError closes the native connection and releases its reference to
// the security context. Only the first call has an effect.
func (c *Connection) CloseWithError(code quic.ApplicationErrorCode, msg string) error {
	c.closeOnce.Do(func() {
		err := c.conn.CloseWithError(code, msg)
		c.closeErr = errors.Join(err, c.security.release())
	})
	return c.closeErr
}

// Close closes the connection without an error.
func (c *Connection) Close() error {
	return c.CloseWithError(0, "")
}
