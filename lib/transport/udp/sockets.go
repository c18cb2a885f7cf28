package udp

import "github.com/go-i2p/go-udptransport/lib/transport"

// SocketType is an OS socket type such as SOCK_DGRAM.
type SocketType int

// Sockets is the set of blocking OS socket calls the domain needs. The
// system implementation is returned by SystemSockets; tests substitute an
// instrumented one.
type Sockets interface {
	// Socket creates a datagram socket for the family.
	Socket(family transport.Family) (int, error)
	SetsockoptInt(fd, level, opt, value int) error
	Bind(fd int, addr transport.Address) error
	// LocalAddr reports the address the socket is bound to.
	LocalAddr(fd int) (transport.Address, error)
	Close(fd int) error
}

// SystemSockets returns the Sockets implementation backed by the OS.
func SystemSockets() Sockets {
	return sysSockets{}
}
