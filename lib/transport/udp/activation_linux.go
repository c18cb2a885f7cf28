//go:build linux

package udp

import (
	"os"
	"sync"

	"github.com/coreos/go-systemd/v22/activation"
	"github.com/go-i2p/go-udptransport/lib/transport"
	"github.com/go-i2p/logger"
	"golang.org/x/sys/unix"
)

// SystemdActivation serves sockets passed in by systemd (LISTEN_FDS).
// The environment is read once, on the first Find.
type SystemdActivation struct {
	mu     sync.Mutex
	load   func() []*os.File
	loaded bool
	files  []*os.File
}

var _ ActivationProvider = (*SystemdActivation)(nil)

// NewSystemdActivation reads the systemd socket activation environment and
// unsets it so child processes do not inherit the sockets.
func NewSystemdActivation() *SystemdActivation {
	return &SystemdActivation{load: func() []*os.File { return activation.Files(true) }}
}

// PlatformActivation returns the supervisor integration for this platform.
func PlatformActivation() ActivationProvider {
	return NewSystemdActivation()
}

// Find returns a duplicate of the first matching inherited socket and
// closes the inherited handle, so the supervisor's copy is never handed
// out twice. A port of 0 matches any port.
func (a *SystemdActivation) Find(family transport.Family, typ SocketType, port uint16) (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.loaded {
		a.files = a.load()
		a.loaded = true
		log.WithField("count", len(a.files)).Debug("loaded socket activation descriptors")
	}

	for i, f := range a.files {
		fd := int(f.Fd())
		if !matchInetSocket(fd, family, typ, port) {
			continue
		}
		nfd, err := unix.FcntlInt(uintptr(fd), unix.F_DUPFD_CLOEXEC, 0)
		if err != nil {
			log.WithError(err).WithFields(logger.Fields{
				"at":   "(SystemdActivation) Find",
				"fd":   fd,
				"port": port,
			}).Warn("cannot take over activated socket")
			continue
		}
		if err := f.Close(); err != nil {
			log.WithError(err).WithFields(logger.Fields{
				"at": "(SystemdActivation) Find",
				"fd": fd,
			}).Warn("error closing inherited socket")
		}
		a.files = append(a.files[:i], a.files[i+1:]...)
		log.WithFields(logger.Fields{
			"at":   "(SystemdActivation) Find",
			"fd":   nfd,
			"port": port,
		}).Debug("reusing activated socket")
		return nfd, true
	}
	return -1, false
}

// Remaining reports how many inherited sockets have not been claimed.
func (a *SystemdActivation) Remaining() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.files)
}

func matchInetSocket(fd int, family transport.Family, typ SocketType, port uint16) bool {
	if family != transport.FamilyInet {
		return false
	}
	st, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_TYPE)
	if err != nil || st != int(typ) {
		return false
	}
	sa, err := unix.Getsockname(fd)
	if err != nil {
		return false
	}
	in4, ok := sa.(*unix.SockaddrInet4)
	if !ok {
		return false
	}
	return port == 0 || in4.Port == int(port)
}
