// Package config loads the transport settings with viper.
//
// The configuration file is YAML and lives in $HOME/.udptransport/config.yaml
// unless --config names another file. A missing default file is created
// from the defaults on first start.
//
// Keys:
//
//	transport.client_addr            local "host[:port]" originators bind to
//	transport.client_addr_uses_port  honour the port in client_addr
//	transport.listen_enabled         allow listener endpoints
//	transport.reuse_address          set SO_REUSEADDR on listeners
//	transport.socket_activation      reuse sockets passed in by systemd
//	transport.default_port           port for targets that name none
//	transport.max_endpoints          endpoints open at once
//	transport.server_recv_buf        SO_RCVBUF for listeners, 0 = OS default
//	transport.server_send_buf        SO_SNDBUF for listeners
//	transport.client_recv_buf        SO_RCVBUF for originators
//	transport.client_send_buf        SO_SNDBUF for originators
//	metrics.address                  Prometheus listen address, "" disables
//
// ViperSettings reads these keys at open time, so a reloaded file applies to
// the next endpoint opened.
package config
