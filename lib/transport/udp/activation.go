package udp

import "github.com/go-i2p/go-udptransport/lib/transport"

// ActivationProvider looks up a socket that a process supervisor has
// already created and bound. Not finding one is a normal outcome. A
// returned descriptor belongs to the caller from then on.
type ActivationProvider interface {
	Find(family transport.Family, typ SocketType, port uint16) (fd int, ok bool)
}

// NoActivation never finds a socket.
type NoActivation struct{}

func (NoActivation) Find(transport.Family, SocketType, uint16) (int, bool) {
	return -1, false
}
