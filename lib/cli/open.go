package cli

import (
	"github.com/go-i2p/go-udptransport/lib/transport"
	"github.com/go-i2p/go-udptransport/lib/util"
	"github.com/spf13/cobra"
)

var (
	holdOpen  bool
	showStats bool
)

var openCmd = &cobra.Command{
	Use:   "open <target>...",
	Short: "Open originator endpoints toward targets and report them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		util.RegisterCloser(rt)
		if err := rt.openAll(cmd.OutOrStdout(), args, transport.Originator); err != nil {
			_ = util.CloseAll()
			return err
		}
		if holdOpen {
			return waitForShutdown(cmd.OutOrStdout(), rt)
		}
		if showStats {
			printStats(cmd.OutOrStdout(), rt.registry)
		}
		return util.CloseAll()
	},
}

func init() {
	openCmd.Flags().BoolVar(&holdOpen, "hold", false, "keep the endpoints open until interrupted")
	openCmd.Flags().BoolVar(&showStats, "stats", false, "print the transport counters before exiting")
	rootCmd.AddCommand(openCmd)
}
