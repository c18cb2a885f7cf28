package udp

import (
	"github.com/go-i2p/go-udptransport/lib/transport"
)

// AddressPair is the auxiliary record kept for originators: the fixed peer
// and the local address the socket is bound to, if any.
type AddressPair struct {
	Remote  transport.Address
	Local   transport.Address
	IfIndex int
}

// Endpoint is a UDP/IPv4 socket in a single role. It is not safe for
// concurrent use; the owner calls Close and Free exactly once.
type Endpoint struct {
	fd             int
	role           transport.Role
	local          *transport.Encoding
	remote         *transport.Encoding
	pair           *AddressPair
	captureEnabled bool
	activated      bool
	sockets        Sockets
}

var _ transport.Endpoint = (*Endpoint)(nil)

// Role reports whether the endpoint listens or originates.
func (e *Endpoint) Role() transport.Role { return e.role }

// Fd returns the socket descriptor, or -1 once closed.
func (e *Endpoint) Fd() int { return e.fd }

// Local returns the encoded bound address, if one is known.
func (e *Endpoint) Local() (transport.Encoding, bool) {
	if e.local == nil {
		return transport.Encoding{}, false
	}
	return *e.local, true
}

// Remote returns the encoded peer address of an originator.
func (e *Endpoint) Remote() (transport.Encoding, bool) {
	if e.remote == nil {
		return transport.Encoding{}, false
	}
	return *e.remote, true
}

// AddressPair returns the auxiliary address record of an originator.
func (e *Endpoint) AddressPair() (AddressPair, bool) {
	if e.pair == nil {
		return AddressPair{}, false
	}
	return *e.pair, true
}

// CaptureEnabled reports whether destination address capture is on.
func (e *Endpoint) CaptureEnabled() bool { return e.captureEnabled }

// Activated reports whether the socket came from the process supervisor.
func (e *Endpoint) Activated() bool { return e.activated }

// Close releases the socket.
func (e *Endpoint) Close() error {
	if e.fd < 0 {
		return nil
	}
	fd := e.fd
	e.fd = -1
	if err := e.sockets.Close(fd); err != nil {
		log.WithError(err).WithField("fd", fd).Warn("error closing UDP socket")
		return err
	}
	log.WithField("fd", fd).Debug("closed UDP socket")
	return nil
}

// Free drops the address encodings and the auxiliary record.
func (e *Endpoint) Free() {
	e.local = nil
	e.remote = nil
	e.pair = nil
}

// String formats the endpoint as "UDP: [local]->[remote]" for logs.
func (e *Endpoint) String() string {
	local, remote := "*", "*"
	if e.local != nil {
		local = transport.FormatEncoding(*e.local)
	}
	if e.remote != nil {
		remote = transport.FormatEncoding(*e.remote)
	}
	return "UDP: [" + local + "]->[" + remote + "]"
}

// abort undoes a partial construction.
func (e *Endpoint) abort() {
	if err := e.Close(); err != nil {
		log.WithError(err).Debug("close during failed open")
	}
	e.Free()
}
