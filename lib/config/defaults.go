package config

import (
	"net"

	"github.com/go-i2p/go-udptransport/lib/transport"
	"github.com/go-i2p/logger"
)

// ConfigDefaults contains every configuration value of the transport tool.
type ConfigDefaults struct {
	Transport TransportDefaults `yaml:"transport"`
	Metrics   MetricsDefaults   `yaml:"metrics"`
}

// TransportDefaults configures the UDP/IPv4 domain and the endpoint mux.
type TransportDefaults struct {
	// ClientAddr is the local "host[:port]" originators bind to.
	// Default: "" (the OS picks the source address)
	ClientAddr string `yaml:"client_addr"`

	// ClientAddrUsesPort keeps the port given in ClientAddr.
	// Default: false (always bind an ephemeral port)
	ClientAddrUsesPort bool `yaml:"client_addr_uses_port"`

	// Default: true
	ListenEnabled bool `yaml:"listen_enabled"`

	// ReuseAddress sets SO_REUSEADDR on listener sockets.
	// Default: false
	ReuseAddress bool `yaml:"reuse_address"`

	// SocketActivation reuses sockets passed in by systemd.
	// Default: true
	SocketActivation bool `yaml:"socket_activation"`

	// DefaultPort is used for targets that name no port.
	// Default: 161
	DefaultPort int `yaml:"default_port"`

	// MaxEndpoints bounds the endpoints open at once.
	// Default: transport.DefaultMaxEndpoints
	MaxEndpoints int `yaml:"max_endpoints"`

	// Socket buffer sizes in bytes. 0 keeps the OS default.
	ServerRecvBuf int `yaml:"server_recv_buf"`
	ServerSendBuf int `yaml:"server_send_buf"`
	ClientRecvBuf int `yaml:"client_recv_buf"`
	ClientSendBuf int `yaml:"client_send_buf"`
}

// MetricsDefaults configures the Prometheus endpoint.
type MetricsDefaults struct {
	// Address is the HTTP listen address for /metrics.
	// Default: "" (disabled)
	Address string `yaml:"address"`
}

// Defaults returns a ConfigDefaults instance with all default values set.
func Defaults() ConfigDefaults {
	return ConfigDefaults{
		Transport: buildTransportDefaults(),
		Metrics:   MetricsDefaults{},
	}
}

func buildTransportDefaults() TransportDefaults {
	return TransportDefaults{
		ListenEnabled:    true,
		SocketActivation: true,
		DefaultPort:      161,
		MaxEndpoints:     transport.DefaultMaxEndpoints,
	}
}

// maxSocketBuffer caps configured socket buffer sizes at 64 MiB.
const maxSocketBuffer = 64 << 20

// Validate checks if the provided configuration values are reasonable.
// Returns an error describing the first invalid value found.
func Validate(cfg ConfigDefaults) error {
	log.WithFields(logger.Fields{
		"at":     "Validate",
		"reason": "verification_requested",
	}).Debug("validating configuration")

	validators := []func() error{
		func() error { return validateTransport(cfg.Transport) },
		func() error { return validateMetrics(cfg.Metrics) },
	}
	for _, validator := range validators {
		if err := validator(); err != nil {
			log.WithError(err).Error("Configuration validation failed")
			return err
		}
	}
	return nil
}

func validateTransport(t TransportDefaults) error {
	if t.DefaultPort < 1 || t.DefaultPort > 65535 {
		log.WithFields(logger.Fields{
			"at":           "validateTransport",
			"reason":       "default_port_out_of_range",
			"default_port": t.DefaultPort,
		}).Error("invalid transport configuration")
		return newValidationError("Transport.DefaultPort must be between 1 and 65535")
	}
	if t.MaxEndpoints < 1 {
		log.WithFields(logger.Fields{
			"at":            "validateTransport",
			"reason":        "max_endpoints_too_low",
			"max_endpoints": t.MaxEndpoints,
		}).Error("invalid transport configuration")
		return newValidationError("Transport.MaxEndpoints must be at least 1")
	}
	for name, size := range map[string]int{
		"ServerRecvBuf": t.ServerRecvBuf,
		"ServerSendBuf": t.ServerSendBuf,
		"ClientRecvBuf": t.ClientRecvBuf,
		"ClientSendBuf": t.ClientSendBuf,
	} {
		if size < 0 || size > maxSocketBuffer {
			log.WithFields(logger.Fields{
				"at":     "validateTransport",
				"reason": "buffer_size_out_of_range",
				"field":  name,
				"size":   size,
			}).Error("invalid transport configuration")
			return newValidationError("Transport." + name + " must be between 0 and 64 MiB")
		}
	}
	if t.ClientAddrUsesPort && t.ClientAddr == "" {
		log.WithField("at", "validateTransport").Warn("client_addr_uses_port set without client_addr")
	}
	return nil
}

func validateMetrics(m MetricsDefaults) error {
	if m.Address == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(m.Address); err != nil {
		log.WithError(err).WithField("address", m.Address).Error("invalid metrics configuration")
		return newValidationError("Metrics.Address must be host:port")
	}
	return nil
}

// validationError is returned when configuration validation fails
type validationError struct {
	message string
}

func newValidationError(message string) error {
	return &validationError{message: message}
}

func (e *validationError) Error() string {
	return "configuration validation failed: " + e.message
}
