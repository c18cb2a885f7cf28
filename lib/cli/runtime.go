package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-i2p/go-udptransport/lib/config"
	"github.com/go-i2p/go-udptransport/lib/stats"
	"github.com/go-i2p/go-udptransport/lib/transport"
	"github.com/go-i2p/go-udptransport/lib/transport/udp"
	"github.com/go-i2p/logger"
	"github.com/samber/oops"
)

const metricsShutdownTimeout = 5 * time.Second

// runtime wires the UDP domain, the endpoint mux and the statistics of one
// command invocation.
type runtime struct {
	domain   *udp.Domain
	mux      *transport.DomainMux
	registry *stats.Registry
	usm      *stats.USMStats
	metrics  *metricsServer

	closeOnce sync.Once
	closeErr  error
}

func newRuntime() (*runtime, error) {
	cfg := config.CurrentConfig()

	dom := udp.NewDomain(config.NewViperSettings(nil))
	reg := stats.NewRegistry()
	if _, err := dom.RegisterStats(reg); err != nil {
		return nil, oops.Wrapf(err, "registering transport statistics")
	}
	usm, err := stats.InitUSMStats(reg)
	if err != nil {
		return nil, oops.Wrapf(err, "registering usmStats")
	}

	rt := &runtime{
		domain:   dom,
		mux:      transport.MuxWithLimit(cfg.Transport.MaxEndpoints, dom),
		registry: reg,
		usm:      usm,
	}
	if cfg.Metrics.Address != "" {
		rt.metrics, err = serveMetrics(cfg.Metrics.Address, reg)
		if err != nil {
			usm.Shutdown()
			return nil, err
		}
	}
	log.WithFields(logger.Fields{
		"at":            "newRuntime",
		"domains":       rt.mux.Names(),
		"max_endpoints": cfg.Transport.MaxEndpoints,
		"metrics":       cfg.Metrics.Address,
	}).Debug("runtime ready")
	return rt, nil
}

// openAll opens one endpoint per target and prints each one.
func (rt *runtime) openAll(out io.Writer, targets []string, role transport.Role) error {
	for _, target := range targets {
		ep, err := rt.mux.Open(target, role)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, ep.String())
	}
	return nil
}

// stopMetrics drains the metrics server. Safe to call more than once.
func (rt *runtime) stopMetrics() {
	if rt.metrics == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
	defer cancel()
	rt.metrics.Shutdown(ctx)
}

// Close releases every endpoint and unregisters the statistics.
func (rt *runtime) Close() error {
	rt.closeOnce.Do(func() {
		rt.closeErr = rt.mux.Close()
		rt.stopMetrics()
		rt.usm.Shutdown()
	})
	return rt.closeErr
}

// printStats writes every registered counter in OID order.
func printStats(out io.Writer, reg *stats.Registry) {
	reg.Walk(func(oid stats.OID, name string, value uint64) {
		fmt.Fprintf(out, "%-36s %-28s %d\n", oid, name, value)
	})
}
