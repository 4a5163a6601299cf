package transport

import (
	"sync"
	"sync/atomic"

	"github.com/OkutaniDaichi0106/quiclistener/quic"
)

func newSecurityContext(config quic.SecurityConfig) *securityContext {
	sc := &securityContext{config: config}
	sc.refs.Store(1)
	return sc
}

// securityContext reference counts a native security config.
// The listener holds one reference and every accepted connection holds one;
// the native config is closed when the last reference is released.
type securityContext struct {
	config quic.SecurityConfig
	refs   atomic.Int64

	closeOnce sync.Once
	closeErr  error
}

// acquire takes a reference. It fails once the count dropped to zero.
func (sc *securityContext) acquire() bool {
	for {
		n := sc.refs.Load()
		if n <= 0 {
			return false
		}
		if sc.refs.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// release drops a reference and closes the native config with the last one.
func (sc *securityContext) release() error {
	if sc.refs.Add(-1) != 0 {
		return nil
	}

	sc.closeOnce.Do(func() {
		sc.closeErr = sc.config.Close()
	})

	return sc.closeErr
}

func (sc *securityContext) references() int64 {
	return sc.refs.Load()
}
