package util

import (
	"io"
	"sync"
)

var (
	closeOnExit []io.Closer
	closeMutex  sync.Mutex
)

// RegisterCloser registers an io.Closer to be closed during shutdown.
// Endpoints and the mux register themselves here when the CLI opens them.
func RegisterCloser(c io.Closer) {
	if c == nil {
		return
	}
	closeMutex.Lock()
	defer closeMutex.Unlock()
	closeOnExit = append(closeOnExit, c)
	log.WithField("count", len(closeOnExit)).Debug("Registered closer")
}

// CloseAll closes the registered closers, most recent first, and clears the
// list. It returns the first error encountered; every closer is still run.
func CloseAll() error {
	closeMutex.Lock()
	pending := closeOnExit
	closeOnExit = nil
	closeMutex.Unlock()

	log.WithField("count", len(pending)).Debug("Closing all registered closers")
	var first error
	for i := len(pending) - 1; i >= 0; i-- {
		if err := pending[i].Close(); err != nil {
			log.WithError(err).Warn("Error closing resource")
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// PendingClosers reports how many closers are registered.
func PendingClosers() int {
	closeMutex.Lock()
	defer closeMutex.Unlock()
	return len(closeOnExit)
}
