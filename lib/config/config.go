package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/go-i2p/go-udptransport/lib/util"
	"github.com/go-i2p/logger"
	"github.com/samber/oops"
	"github.com/spf13/viper"
)

var (
	CfgFile string
	log     = logger.GetGoI2PLogger()
)

const UDPTRANSPORT_BASE_DIR = ".udptransport"

// InitConfig points viper at the configuration file, applies the defaults
// and reads the file, creating the default one when it does not exist yet.
func InitConfig() error {
	if CfgFile != "" {
		viper.SetConfigFile(CfgFile)
	} else {
		viper.AddConfigPath(BuildConfigDirPath())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	setDefaults()

	if err := handleConfigFile(); err != nil {
		return err
	}
	return Validate(CurrentConfig())
}

func setDefaults() {
	d := Defaults()

	viper.SetDefault("transport.client_addr", d.Transport.ClientAddr)
	viper.SetDefault("transport.client_addr_uses_port", d.Transport.ClientAddrUsesPort)
	viper.SetDefault("transport.listen_enabled", d.Transport.ListenEnabled)
	viper.SetDefault("transport.reuse_address", d.Transport.ReuseAddress)
	viper.SetDefault("transport.socket_activation", d.Transport.SocketActivation)
	viper.SetDefault("transport.default_port", d.Transport.DefaultPort)
	viper.SetDefault("transport.max_endpoints", d.Transport.MaxEndpoints)
	viper.SetDefault("transport.server_recv_buf", d.Transport.ServerRecvBuf)
	viper.SetDefault("transport.server_send_buf", d.Transport.ServerSendBuf)
	viper.SetDefault("transport.client_recv_buf", d.Transport.ClientRecvBuf)
	viper.SetDefault("transport.client_send_buf", d.Transport.ClientSendBuf)

	viper.SetDefault("metrics.address", d.Metrics.Address)
}

// CurrentConfig returns the effective configuration from viper.
func CurrentConfig() ConfigDefaults {
	return ConfigDefaults{
		Transport: CurrentTransportConfig(),
		Metrics: MetricsDefaults{
			Address: viper.GetString("metrics.address"),
		},
	}
}

func createDefaultConfig(defaultConfigDir string) error {
	defaultConfigFile := filepath.Join(defaultConfigDir, "config.yaml")
	if err := os.MkdirAll(defaultConfigDir, 0o755); err != nil {
		return oops.Wrapf(err, "could not create config directory %s", defaultConfigDir)
	}
	if err := viper.SafeWriteConfigAs(defaultConfigFile); err != nil {
		return oops.Wrapf(err, "could not write default config file %s", defaultConfigFile)
	}
	log.Debugf("Created default configuration at: %s", defaultConfigFile)
	return nil
}

func handleConfigFile() error {
	err := viper.ReadInConfig()
	if err == nil {
		log.Debugf("Using config file: %s", viper.ConfigFileUsed())
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	switch {
	case errors.As(err, &notFound) && CfgFile == "":
		return createDefaultConfig(BuildConfigDirPath())
	case CfgFile != "" && errors.Is(err, os.ErrNotExist):
		return oops.Wrapf(err, "config file %s is not found", CfgFile)
	default:
		return oops.Wrapf(err, "error reading config file")
	}
}

// BuildConfigDirPath returns $HOME/.udptransport.
func BuildConfigDirPath() string {
	return filepath.Join(util.UserHome(), UDPTRANSPORT_BASE_DIR)
}
