package udp

// SettingsProvider supplies the process-wide settings the domain reads at
// open time. lib/config provides a viper-backed implementation.
type SettingsProvider interface {
	// ClientAddress is the "host[:port]" originators bind to, or "".
	ClientAddress() string
	// ClientAddressUsesPort reports whether ClientAddress carries a port
	// that must be honoured.
	ClientAddressUsesPort() bool
	ListenEnabled() bool
	ReuseAddress() bool
	SocketActivation() bool
	// DefaultPort is used for targets that name no port.
	DefaultPort() uint16
	// BufferSizes returns SO_RCVBUF and SO_SNDBUF sizes; 0 keeps the OS
	// default.
	BufferSizes(listener bool) (recv, send int)
}

// StaticSettings is a fixed SettingsProvider.
type StaticSettings struct {
	ClientAddr         string
	ClientAddrUsesPort bool
	DisableListen      bool
	Reuse              bool
	Activation         bool
	Port               uint16
	ServerRecvBuf      int
	ServerSendBuf      int
	ClientRecvBuf      int
	ClientSendBuf      int
}

var _ SettingsProvider = StaticSettings{}

func (s StaticSettings) ClientAddress() string { return s.ClientAddr }

func (s StaticSettings) ClientAddressUsesPort() bool { return s.ClientAddrUsesPort }

func (s StaticSettings) ListenEnabled() bool { return !s.DisableListen }

func (s StaticSettings) ReuseAddress() bool { return s.Reuse }

func (s StaticSettings) SocketActivation() bool { return s.Activation }

func (s StaticSettings) DefaultPort() uint16 { return s.Port }

func (s StaticSettings) BufferSizes(listener bool) (int, int) {
	if listener {
		return s.ServerRecvBuf, s.ServerSendBuf
	}
	return s.ClientRecvBuf, s.ClientSendBuf
}
