package udp

import "github.com/go-i2p/go-udptransport/lib/stats"

// Counter indexes in the udpTransport statistics group.
const (
	StatEndpointsOpened = iota
	StatListenersOpened
	StatOriginatorsOpened
	StatActivationReuses
	StatOpenFailures
	StatCaptureUnavailable
)

// StatsRoot is where the udpTransport group is registered.
var StatsRoot = stats.MustParseOID("1.3.6.1.4.1.8072.9999.9999.17")

// NewStatsGroup returns an empty udpTransport counter group.
func NewStatsGroup() *stats.Group {
	return stats.NewGroup("udpTransport",
		"endpointsOpened",
		"listenersOpened",
		"originatorsOpened",
		"activationReuses",
		"openFailures",
		"captureUnavailable",
	)
}

// RegisterStats publishes the domain's counters in r.
func (d *Domain) RegisterStats(r *stats.Registry) (*stats.HandlerRegistration, error) {
	if d.Stats == nil {
		d.Stats = NewStatsGroup()
	}
	reg := stats.NewHandlerRegistration("udpTransport", StatsRoot)
	if err := r.RegisterStatisticHandler(reg, 1, d.Stats); err != nil {
		return nil, err
	}
	return reg, nil
}
