package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-i2p/go-udptransport/lib/stats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"
)

const metricsNamespace = "udptransport"

type metricsServer struct {
	srv  *http.Server
	ln   net.Listener
	once sync.Once
}

// Addr is the address the server actually listens on.
func (m *metricsServer) Addr() net.Addr { return m.ln.Addr() }

func (m *metricsServer) Shutdown(ctx context.Context) {
	m.once.Do(func() {
		if err := m.srv.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("metrics server shutdown")
		}
	})
}

// serveMetrics exposes the statistics registry on addr under /metrics.
func serveMetrics(addr string, reg *stats.Registry) (*metricsServer, error) {
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		stats.NewCollector(metricsNamespace, reg),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, oops.Wrapf(err, "metrics listen on %s", addr)
	}
	m := &metricsServer{
		srv: &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		ln:  ln,
	}
	go func() {
		if err := m.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server stopped")
		}
	}()
	log.WithField("address", ln.Addr().String()).Debug("serving metrics")
	return m, nil
}
