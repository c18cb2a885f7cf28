package stats

import (
	"regexp"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

var invalidMetricChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// Collector exposes every group registered in a Registry as Prometheus
// counters named <namespace>_<group>_<counter>.
type Collector struct {
	namespace string
	registry  *Registry
}

var _ prometheus.Collector = (*Collector)(nil)

func NewCollector(namespace string, r *Registry) *Collector {
	return &Collector{namespace: namespace, registry: r}
}

// Describe sends no descriptors; the set of groups can change at runtime,
// which makes this an unchecked collector.
func (c *Collector) Describe(chan<- *prometheus.Desc) {}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, g := range c.registry.Groups() {
		for i := 0; i < g.Len(); i++ {
			desc := prometheus.NewDesc(
				prometheus.BuildFQName(c.namespace, metricName(g.Name()), metricName(g.CounterName(i))),
				g.Name()+"."+g.CounterName(i),
				nil, nil,
			)
			ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(g.Value(i)))
		}
	}
}

func metricName(s string) string {
	return strings.ToLower(invalidMetricChars.ReplaceAllString(s, "_"))
}
