package transport

// Role is fixed for an endpoint's lifetime.
type Role uint8

const (
	// Listener binds to a given address to receive inbound datagrams.
	Listener Role = iota + 1
	// Originator sends toward a single fixed peer.
	Originator
)

func (r Role) String() string {
	switch r {
	case Listener:
		return "listener"
	case Originator:
		return "originator"
	default:
		return "unknown"
	}
}

// Endpoint is a bound datagram socket handed to the engine for later I/O.
// It is owned by exactly one caller, which must call Close and then Free
// exactly once.
type Endpoint interface {
	Role() Role
	// Fd returns the OS socket descriptor, or -1 once closed.
	Fd() int
	// Local returns the encoded local address when one is recorded.
	Local() (Encoding, bool)
	// Remote returns the encoded peer address when one is recorded.
	Remote() (Encoding, bool)
	// Close releases the OS socket.
	Close() error
	// Free releases the address encodings and auxiliary data.
	Free()
	String() string
}

// Domain is a pluggable transport implementation, e.g. UDP over IPv4.
type Domain interface {
	// Name is a short human readable name such as "UDP/IPv4".
	Name() string
	// Prefixes are the target prefixes this domain answers to, e.g. "udp".
	Prefixes() []string
	Open(role Role, addr Address) (Endpoint, error)
	// OpenTarget resolves a textual "host[:port]" target and opens it.
	OpenTarget(target string, role Role) (Endpoint, error)
}
