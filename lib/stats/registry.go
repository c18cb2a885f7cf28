package stats

import (
	"errors"
	"sort"
	"sync"

	"github.com/go-i2p/logger"
	"github.com/samber/oops"
)

// Registry errors, oops-wrapped on return. Keep them errors.New values: an
// oops value used as an errors.Is target matches every oops error.
var (
	ErrDuplicateRegistration = errors.New("statistic handler already registered")
	ErrNoSuchObject          = errors.New("no such object")
)

// HandlerRegistration names the subtree a statistic group is served under.
type HandlerRegistration struct {
	Name string
	Root OID
}

// NewHandlerRegistration creates a read-only registration rooted at root.
func NewHandlerRegistration(name string, root OID) *HandlerRegistration {
	return &HandlerRegistration{Name: name, Root: root.Append()}
}

type statisticEntry struct {
	reg       *HandlerRegistration
	baseIndex uint32
	group     *Group
}

// instance returns the OID of counter i: root.(baseIndex+i).0
func (e *statisticEntry) instance(i int) OID {
	return e.reg.Root.Append(e.baseIndex+uint32(i), 0)
}

// Registry holds registered statistic groups and the capabilities table.
// Safe for concurrent use.
type Registry struct {
	mu           sync.RWMutex
	entries      map[string]*statisticEntry
	capabilities map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		entries:      make(map[string]*statisticEntry),
		capabilities: make(map[string]string),
	}
}

// RegisterStatisticHandler serves the counters of group as read-only
// scalars below reg.Root, numbered from baseIndex.
func (r *Registry) RegisterStatisticHandler(reg *HandlerRegistration, baseIndex uint32, group *Group) error {
	if reg == nil || group == nil || len(reg.Root) == 0 {
		return oops.Errorf("statistic registration requires a root OID and a group")
	}
	key := reg.Root.String()

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.entries[key]; ok {
		log.WithFields(logger.Fields{
			"at":       "(Registry) RegisterStatisticHandler",
			"reason":   "duplicate_root",
			"root":     key,
			"existing": existing.reg.Name,
		}).Warn("statistic root already registered")
		return oops.Wrapf(ErrDuplicateRegistration, "%s at %s", reg.Name, key)
	}
	r.entries[key] = &statisticEntry{reg: reg, baseIndex: baseIndex, group: group}

	log.WithFields(logger.Fields{
		"at":       "(Registry) RegisterStatisticHandler",
		"name":     reg.Name,
		"root":     key,
		"counters": group.Len(),
	}).Debug("registered statistic group")
	return nil
}

// Unregister removes a registration. Unknown registrations are ignored.
func (r *Registry) Unregister(reg *HandlerRegistration) {
	if reg == nil {
		return
	}
	key := reg.Root.String()
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[key]; ok && e.reg == reg {
		delete(r.entries, key)
		log.WithFields(logger.Fields{
			"at":   "(Registry) Unregister",
			"name": reg.Name,
			"root": key,
		}).Debug("unregistered statistic group")
	}
}

// Get returns the value of a scalar instance OID.
func (r *Registry) Get(oid OID) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		for i := 0; i < e.group.Len(); i++ {
			if e.instance(i).Equal(oid) {
				return e.group.Value(i), nil
			}
		}
	}
	return 0, oops.Wrapf(ErrNoSuchObject, "%s", oid)
}

// Walk visits every registered instance in OID order.
func (r *Registry) Walk(fn func(oid OID, name string, value uint64)) {
	type row struct {
		oid   OID
		name  string
		value uint64
	}
	r.mu.RLock()
	rows := make([]row, 0)
	for _, e := range r.entries {
		for i := 0; i < e.group.Len(); i++ {
			rows = append(rows, row{e.instance(i), e.group.CounterName(i), e.group.Value(i)})
		}
	}
	r.mu.RUnlock()

	sort.Slice(rows, func(a, b int) bool { return lessOID(rows[a].oid, rows[b].oid) })
	for _, rw := range rows {
		fn(rw.oid, rw.name, rw.value)
	}
}

// Groups returns the registered groups.
func (r *Registry) Groups() []*Group {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Group, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.group)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name() < out[b].Name() })
	return out
}

// RegisterCapability announces support for the module identified by oid.
// Registering the same OID again replaces its description.
func (r *Registry) RegisterCapability(oid OID, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.capabilities[oid.String()] = description
	log.WithField("oid", oid.String()).Debug("registered capability")
}

// UnregisterCapability retracts a capability. Unknown OIDs are ignored.
func (r *Registry) UnregisterCapability(oid OID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.capabilities, oid.String())
}

// Capabilities returns a copy of the capabilities table keyed by dotted OID.
func (r *Registry) Capabilities() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.capabilities))
	for k, v := range r.capabilities {
		out[k] = v
	}
	return out
}

func lessOID(a, b OID) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
