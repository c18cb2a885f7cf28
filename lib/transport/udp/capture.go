package udp

import "github.com/go-i2p/go-udptransport/lib/transport"

// CaptureStrategy enables per-datagram destination address reporting on a
// listener socket, so replies on multi-homed hosts can use the address the
// request was sent to. Exactly one strategy is selected per platform.
type CaptureStrategy interface {
	Name() string
	// Apply reports whether capture is now enabled. A strategy that has no
	// mechanism returns false and no error.
	Apply(s Sockets, fd int) (bool, error)
}

// NoCapture is used where the platform offers no mechanism. Listeners
// still work but cannot learn the destination of inbound datagrams.
type NoCapture struct{}

func (NoCapture) Name() string { return "none" }

func (NoCapture) Apply(Sockets, int) (bool, error) { return false, nil }

// SockoptCapture turns capture on with a single integer socket option.
type SockoptCapture struct {
	Option string
	Level  int
	Opt    int
}

func (c SockoptCapture) Name() string { return c.Option }

// Apply fails with ErrCaptureConfig when the option call fails; there is no
// fallback to another mechanism.
func (c SockoptCapture) Apply(s Sockets, fd int) (bool, error) {
	if err := s.SetsockoptInt(fd, c.Level, c.Opt, 1); err != nil {
		return false, transport.NewError(transport.KindCaptureConfig, "setsockopt "+c.Option, err)
	}
	return true, nil
}

// PlatformCapture returns the strategy compiled in for this platform.
func PlatformCapture() CaptureStrategy {
	return platformCapture
}
