package signals

import (
	"sync"
	"time"

	"github.com/go-i2p/logger"
)

const defaultGracefulTimeout = 30 * time.Second

var (
	preShutdownMu       sync.RWMutex
	preShutdownHandlers []Handler
	gracefulTimeout     = defaultGracefulTimeout
)

// RegisterPreShutdownHandler registers f to run before the interrupt
// handlers, e.g. to drain an HTTP server while endpoints are still open.
// Nil handlers are ignored.
func RegisterPreShutdownHandler(f Handler) {
	if f == nil {
		return
	}
	preShutdownMu.Lock()
	defer preShutdownMu.Unlock()
	preShutdownHandlers = append(preShutdownHandlers, f)
}

// SetGracefulTimeout bounds how long pre-shutdown handlers may run. A
// non-positive value restores the 30 second default.
func SetGracefulTimeout(timeout time.Duration) {
	preShutdownMu.Lock()
	defer preShutdownMu.Unlock()
	if timeout <= 0 {
		timeout = defaultGracefulTimeout
	}
	gracefulTimeout = timeout
}

// handlePreShutdown reports whether all pre-shutdown handlers finished in
// time.
func handlePreShutdown() bool {
	preShutdownMu.RLock()
	snapshot := make([]Handler, len(preShutdownHandlers))
	copy(snapshot, preShutdownHandlers)
	timeout := gracefulTimeout
	preShutdownMu.RUnlock()

	if len(snapshot) == 0 {
		return true
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i, h := range snapshot {
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(logger.Fields{
							"at":      "handlePreShutdown",
							"handler": i,
							"panic":   r,
						}).Error("pre-shutdown handler panicked")
					}
				}()
				h()
			}()
		}
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		log.WithField("timeout", timeout.String()).Warn("pre-shutdown handlers timed out")
		return false
	}
}
