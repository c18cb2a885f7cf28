package cli

import (
	"fmt"
	"os"

	"github.com/go-i2p/go-udptransport/lib/config"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile     string
	metricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "udptransport",
	Short: "Open and inspect UDP/IPv4 transport endpoints",
	Long: `udptransport opens UDP/IPv4 endpoints the way the transport layer
does: listeners reuse sockets handed over by systemd, enable destination
address capture and bind; originators optionally bind to a configured
client address.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.CfgFile = cfgFile
		if err := config.InitConfig(); err != nil {
			return oops.Wrapf(err, "failed to load config")
		}
		if metricsAddr != "" {
			viper.Set("metrics.address", metricsAddr)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default $HOME/"+config.UDPTRANSPORT_BASE_DIR+"/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "",
		"serve Prometheus metrics on this host:port")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
