package cli

import (
	"io"
	"sync"

	"github.com/go-i2p/go-udptransport/lib/transport"
	"github.com/go-i2p/go-udptransport/lib/util"
	"github.com/go-i2p/go-udptransport/lib/util/signals"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var listenCmd = &cobra.Command{
	Use:   "listen <target>...",
	Short: "Open listener endpoints and hold them until interrupted",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		util.RegisterCloser(rt)
		if err := rt.openAll(cmd.OutOrStdout(), args, transport.Listener); err != nil {
			_ = util.CloseAll()
			return err
		}
		return waitForShutdown(cmd.OutOrStdout(), rt)
	},
}

func init() {
	rootCmd.AddCommand(listenCmd)
}

// waitForShutdown blocks until SIGINT or SIGTERM, then prints the counters
// and closes everything registered with util.
func waitForShutdown(out io.Writer, rt *runtime) error {
	done := make(chan struct{})
	var once sync.Once

	reloadID := signals.RegisterReloadHandler(reloadConfig)
	interruptID := signals.RegisterInterruptHandler(func() {
		once.Do(func() { close(done) })
	})
	signals.RegisterPreShutdownHandler(rt.stopMetrics)
	defer signals.DeregisterReloadHandler(reloadID)
	defer signals.DeregisterInterruptHandler(interruptID)

	go signals.Handle()
	<-done
	signals.StopHandle()

	printStats(out, rt.registry)
	return util.CloseAll()
}

func reloadConfig() {
	if err := viper.ReadInConfig(); err != nil {
		log.WithError(err).Warn("could not reload configuration")
		return
	}
	log.WithField("file", viper.ConfigFileUsed()).Info("configuration reloaded, applies to new endpoints")
}
