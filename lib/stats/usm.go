package stats

// User-based Security Model statistics (SNMP-USER-BASED-SM-MIB usmStats).
// Only the counters and their registration live here; the security model
// that increments them is implemented elsewhere.

var (
	usmStatsOID         = MustParseOID("1.3.6.1.6.3.15.1.1")
	usmMIBComplianceOID = MustParseOID("1.3.6.1.6.3.15.2.1.1")
)

const usmMIBComplianceDescr = "The management information definitions for the " +
	"SNMP User-based Security Model."

// Counter indexes within the usmStats group.
const (
	USMUnsupportedSecLevels = iota
	USMNotInTimeWindows
	USMUnknownUserNames
	USMUnknownEngineIDs
	USMWrongDigests
	USMDecryptionErrors
)

// USMStats is a registered usmStats group.
type USMStats struct {
	*Group
	registry *Registry
	reg      *HandlerRegistration
}

// InitUSMStats registers the usmStats counters and the usmMIBCompliance
// capability. On failure nothing stays registered.
func InitUSMStats(r *Registry) (*USMStats, error) {
	group := NewGroup("usmStats",
		"usmStatsUnsupportedSecLevels",
		"usmStatsNotInTimeWindows",
		"usmStatsUnknownUserNames",
		"usmStatsUnknownEngineIDs",
		"usmStatsWrongDigests",
		"usmStatsDecryptionErrors",
	)
	reg := NewHandlerRegistration("usmStats", usmStatsOID)
	if err := r.RegisterStatisticHandler(reg, 1, group); err != nil {
		return nil, err
	}
	r.RegisterCapability(usmMIBComplianceOID, usmMIBComplianceDescr)
	return &USMStats{Group: group, registry: r, reg: reg}, nil
}

// Shutdown retracts the capability and the statistic registration.
func (u *USMStats) Shutdown() {
	if u == nil || u.registry == nil {
		return
	}
	u.registry.UnregisterCapability(usmMIBComplianceOID)
	if u.reg != nil {
		u.registry.Unregister(u.reg)
		u.reg = nil
	}
}
