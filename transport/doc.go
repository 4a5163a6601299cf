// Package transport accepts QUIC connections from a native, callback-driven
// transport and hands them to a single consumer through a pull-based API.
//
// A ConnectionListener binds the native registration, security config,
// session and listener, then exposes accepted connections through Accept:
//
//	ln := &transport.ConnectionListener{
//	    Options:  opts,
//	    Endpoint: &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 5555},
//	    Logger:   slog.Default(),
//	}
//	if err := ln.Bind(ctx); err != nil {
//	    return err
//	}
//	defer ln.Close()
//
//	for {
//	    conn, err := ln.Accept(ctx)
//	    if errors.Is(err, io.EOF) {
//	        return nil // unbound and drained
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    go serve(conn)
//	}
//
// The native callback never blocks: it enqueues the connection and returns.
// Unbind stops the native listener and lets Accept drain what was already
// queued before it reports io.EOF. Close releases everything; any connection
// still queued at that point is closed, and Accept fails with
// ErrListenerDisposed.
package transport
