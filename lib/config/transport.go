package config

import (
	"github.com/go-i2p/go-udptransport/lib/transport/udp"
	"github.com/spf13/viper"
)

// CurrentTransportConfig reads the transport section from viper.
func CurrentTransportConfig() TransportDefaults {
	return TransportDefaults{
		ClientAddr:         viper.GetString("transport.client_addr"),
		ClientAddrUsesPort: viper.GetBool("transport.client_addr_uses_port"),
		ListenEnabled:      viper.GetBool("transport.listen_enabled"),
		ReuseAddress:       viper.GetBool("transport.reuse_address"),
		SocketActivation:   viper.GetBool("transport.socket_activation"),
		DefaultPort:        viper.GetInt("transport.default_port"),
		MaxEndpoints:       viper.GetInt("transport.max_endpoints"),
		ServerRecvBuf:      viper.GetInt("transport.server_recv_buf"),
		ServerSendBuf:      viper.GetInt("transport.server_send_buf"),
		ClientRecvBuf:      viper.GetInt("transport.client_recv_buf"),
		ClientSendBuf:      viper.GetInt("transport.client_send_buf"),
	}
}

// ViperSettings is a udp.SettingsProvider that reads viper on every call.
type ViperSettings struct {
	v *viper.Viper
}

var _ udp.SettingsProvider = ViperSettings{}

// NewViperSettings wraps v; nil means the global viper instance.
func NewViperSettings(v *viper.Viper) ViperSettings {
	if v == nil {
		v = viper.GetViper()
	}
	return ViperSettings{v: v}
}

// ClientAddress reads transport.client_addr.
func (s ViperSettings) ClientAddress() string {
	return s.v.GetString("transport.client_addr")
}

func (s ViperSettings) ClientAddressUsesPort() bool {
	return s.v.GetBool("transport.client_addr_uses_port")
}

// ListenEnabled reads transport.listen_enabled.
func (s ViperSettings) ListenEnabled() bool {
	return s.v.GetBool("transport.listen_enabled")
}

func (s ViperSettings) ReuseAddress() bool {
	return s.v.GetBool("transport.reuse_address")
}

func (s ViperSettings) SocketActivation() bool {
	return s.v.GetBool("transport.socket_activation")
}

// DefaultPort reads transport.default_port. Out-of-range values yield 0.
func (s ViperSettings) DefaultPort() uint16 {
	p := s.v.GetInt("transport.default_port")
	if p < 0 || p > 65535 {
		return 0
	}
	return uint16(p)
}

// BufferSizes returns the receive and send buffer sizes for the role.
func (s ViperSettings) BufferSizes(listener bool) (int, int) {
	if listener {
		return s.v.GetInt("transport.server_recv_buf"), s.v.GetInt("transport.server_send_buf")
	}
	return s.v.GetInt("transport.client_recv_buf"), s.v.GetInt("transport.client_send_buf")
}
