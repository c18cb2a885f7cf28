package transport

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-i2p/logger"
	"github.com/samber/oops"
)

// DefaultMaxEndpoints bounds the number of endpoints a DomainMux keeps open
// when MaxEndpoints is not set.
const DefaultMaxEndpoints = 1024

// DomainMux selects a Domain by target prefix and tracks the endpoints it
// hands out. The first domain is the default for targets without a prefix.
type DomainMux struct {
	// domains in order of preference
	domains []Domain

	// MaxEndpoints is the maximum number of endpoints open at once.
	// 0 means DefaultMaxEndpoints.
	MaxEndpoints int

	activeCount int32 // atomic

	mu     sync.Mutex
	open   map[Endpoint]struct{}
	closed bool
}

// Mux builds a DomainMux over the given domains.
func Mux(d ...Domain) *DomainMux {
	log.WithFields(logger.Fields{
		"at":           "Mux",
		"reason":       "initialization",
		"domain_count": len(d),
	}).Debug("creating new DomainMux")
	mux := &DomainMux{open: make(map[Endpoint]struct{})}
	mux.domains = append(mux.domains, d...)
	return mux
}

// MuxWithLimit builds a DomainMux with an explicit endpoint limit.
func MuxWithLimit(maxEndpoints int, d ...Domain) *DomainMux {
	mux := Mux(d...)
	mux.MaxEndpoints = maxEndpoints
	log.WithFields(logger.Fields{
		"at":            "MuxWithLimit",
		"max_endpoints": maxEndpoints,
	}).Debug("DomainMux created with endpoint limit")
	return mux
}

// Names returns the names of the muxed domains, in order.
func (mux *DomainMux) Names() []string {
	names := make([]string, 0, len(mux.domains))
	for _, d := range mux.domains {
		names = append(names, d.Name())
	}
	return names
}

// Lookup finds the domain that answers to prefix.
func (mux *DomainMux) Lookup(prefix string) (Domain, bool) {
	prefix = strings.ToLower(prefix)
	for _, d := range mux.domains {
		for _, p := range d.Prefixes() {
			if p == prefix {
				return d, true
			}
		}
	}
	return nil, false
}

// splitTarget separates an optional "prefix:" from the rest of the target.
// A leading component is only treated as a prefix when a domain claims it,
// so "localhost:161" stays a host and port.
func (mux *DomainMux) splitTarget(target string) (Domain, string, error) {
	if i := strings.IndexByte(target, ':'); i > 0 {
		if d, ok := mux.Lookup(target[:i]); ok {
			return d, target[i+1:], nil
		}
	}
	if len(mux.domains) == 0 {
		return nil, "", oops.Wrapf(ErrUnknownDomain, "target %q", target)
	}
	return mux.domains[0], target, nil
}

// Open opens an endpoint for target in the given role.
func (mux *DomainMux) Open(target string, role Role) (Endpoint, error) {
	log.WithFields(logger.Fields{
		"at":     "(DomainMux) Open",
		"reason": "open_requested",
		"target": target,
		"role":   role.String(),
	}).Debug("opening endpoint")

	mux.mu.Lock()
	closed := mux.closed
	mux.mu.Unlock()
	if closed {
		return nil, ErrMuxClosed
	}
	if err := mux.reserveSlot(); err != nil {
		return nil, err
	}

	d, rest, err := mux.splitTarget(target)
	if err != nil {
		mux.releaseSlot()
		return nil, err
	}
	ep, err := d.OpenTarget(rest, role)
	if err != nil {
		mux.releaseSlot()
		log.WithError(err).WithFields(logger.Fields{
			"at":     "(DomainMux) Open",
			"reason": "domain_open_failed",
			"domain": d.Name(),
			"target": target,
		}).Warn("failed to open endpoint")
		return nil, oops.Wrapf(err, "%s open %s %s", d.Name(), role, rest)
	}

	mux.mu.Lock()
	if mux.closed {
		mux.mu.Unlock()
		mux.releaseSlot()
		_ = ep.Close()
		ep.Free()
		return nil, ErrMuxClosed
	}
	mux.open[ep] = struct{}{}
	mux.mu.Unlock()

	log.WithFields(logger.Fields{
		"at":               "(DomainMux) Open",
		"reason":           "endpoint_opened",
		"domain":           d.Name(),
		"endpoint":         ep.String(),
		"active_endpoints": atomic.LoadInt32(&mux.activeCount),
	}).Debug("endpoint opened")
	return ep, nil
}

// Release closes and frees an endpoint obtained from Open. Endpoints the
// mux does not know about are left untouched.
func (mux *DomainMux) Release(ep Endpoint) error {
	mux.mu.Lock()
	_, ok := mux.open[ep]
	delete(mux.open, ep)
	mux.mu.Unlock()
	if !ok {
		return nil
	}

	err := ep.Close()
	ep.Free()
	mux.releaseSlot()
	log.WithFields(logger.Fields{
		"at":               "(DomainMux) Release",
		"active_endpoints": atomic.LoadInt32(&mux.activeCount),
	}).Debug("endpoint released")
	return err
}

// ActiveEndpointCount returns the number of endpoints currently open.
func (mux *DomainMux) ActiveEndpointCount() int {
	return int(atomic.LoadInt32(&mux.activeCount))
}

func (mux *DomainMux) maxEndpoints() int {
	if mux.MaxEndpoints <= 0 {
		return DefaultMaxEndpoints
	}
	return mux.MaxEndpoints
}

// reserveSlot claims room for one endpoint before the domain opens it, so
// concurrent opens never exceed the limit. Every failed open gives the slot
// back with releaseSlot.
func (mux *DomainMux) reserveSlot() error {
	max := mux.maxEndpoints()
	n := int(atomic.AddInt32(&mux.activeCount, 1))
	if n > max {
		atomic.AddInt32(&mux.activeCount, -1)
		log.WithFields(logger.Fields{
			"at":               "(DomainMux) reserveSlot",
			"reason":           "endpoint_limit_reached",
			"active_endpoints": n - 1,
			"max_endpoints":    max,
		}).Warn("endpoint limit reached")
		return oops.Wrapf(ErrEndpointLimit, "%d of %d open", n-1, max)
	}
	return nil
}

func (mux *DomainMux) releaseSlot() {
	atomic.AddInt32(&mux.activeCount, -1)
}

// Close releases every endpoint still tracked by the mux. Further opens
// fail with ErrMuxClosed.
func (mux *DomainMux) Close() (err error) {
	mux.mu.Lock()
	mux.closed = true
	eps := make([]Endpoint, 0, len(mux.open))
	for ep := range mux.open {
		eps = append(eps, ep)
	}
	mux.mu.Unlock()

	log.WithFields(logger.Fields{
		"at":             "(DomainMux) Close",
		"reason":         "shutdown_requested",
		"endpoint_count": len(eps),
	}).Debug("closing all endpoints")
	for _, ep := range eps {
		if cerr := mux.Release(ep); cerr != nil {
			// keep closing the rest
			log.WithError(cerr).WithField("endpoint", ep.String()).Warn("error closing endpoint")
			err = cerr
		}
	}
	return err
}
