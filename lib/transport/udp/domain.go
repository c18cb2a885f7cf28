package udp

import (
	"strings"

	"github.com/go-i2p/go-udptransport/lib/stats"
	"github.com/go-i2p/go-udptransport/lib/transport"
	"github.com/go-i2p/logger"
	"github.com/samber/oops"
)

// Domain is the UDP over IPv4 transport domain. The exported fields are the
// collaborators it orchestrates; NewDomain fills them with the platform
// defaults and any of them may be replaced before the first Open.
type Domain struct {
	Sockets    Sockets
	Activation ActivationProvider
	Capture    CaptureStrategy
	Resolver   HostResolver
	Settings   SettingsProvider
	// ListenSupport is false in nolisten builds.
	ListenSupport bool
	Stats         *stats.Group
}

var _ transport.Domain = (*Domain)(nil)

// NewDomain creates a UDP/IPv4 domain reading its settings from settings.
// A nil settings provider means StaticSettings{}.
func NewDomain(settings SettingsProvider) *Domain {
	if settings == nil {
		settings = StaticSettings{}
	}
	d := &Domain{
		Sockets:       SystemSockets(),
		Activation:    NoActivation{},
		Capture:       PlatformCapture(),
		Resolver:      DefaultResolver(),
		Settings:      settings,
		ListenSupport: listenSupported,
		Stats:         NewStatsGroup(),
	}
	if settings.SocketActivation() {
		d.Activation = PlatformActivation()
	}
	log.WithFields(logger.Fields{
		"at":         "NewDomain",
		"capture":    d.Capture.Name(),
		"listen":     d.ListenSupport,
		"activation": settings.SocketActivation(),
	}).Debug("created UDP/IPv4 domain")
	return d
}

// Name returns the human-readable domain name.
func (d *Domain) Name() string { return "UDP/IPv4" }

// Prefixes lists the target prefixes that select this domain.
func (d *Domain) Prefixes() []string { return []string{"udp", "udpv4", "udpipv4"} }

// Open implements transport.Domain.
func (d *Domain) Open(role transport.Role, addr transport.Address) (transport.Endpoint, error) {
	ep, err := d.OpenEndpoint(role, addr)
	if err != nil {
		return nil, err
	}
	return ep, nil
}

// OpenTarget resolves "host[:port]" (or a bare port for listeners) and
// opens it. A missing port falls back to the configured default port.
func (d *Domain) OpenTarget(target string, role transport.Role) (transport.Endpoint, error) {
	if isAllDigits(target) {
		target = ":" + target
	}
	addr, err := resolveHostPort(target, d.Settings.DefaultPort(), d.Resolver)
	if err != nil {
		d.Stats.Inc(StatOpenFailures)
		return nil, err
	}
	return d.Open(role, addr)
}

// OpenEndpoint creates an endpoint for role bound or aimed at addr. On
// failure every partial resource is released and a *transport.Error is
// returned.
func (d *Domain) OpenEndpoint(role transport.Role, addr transport.Address) (*Endpoint, error) {
	log.WithFields(logger.Fields{
		"at":      "(Domain) OpenEndpoint",
		"role":    role.String(),
		"address": addr.String(),
	}).Debug("open")

	if err := d.checkRequest(role, addr); err != nil {
		d.Stats.Inc(StatOpenFailures)
		return nil, err
	}

	fd, activated, err := d.acquire(role, addr)
	if err != nil {
		d.Stats.Inc(StatOpenFailures)
		return nil, err
	}
	ep := &Endpoint{fd: fd, role: role, activated: activated, sockets: d.Sockets}

	d.applySocketOptions(fd, role)
	if role == transport.Listener {
		err = d.setupListener(ep, addr)
	} else {
		err = d.setupOriginator(ep, addr)
	}
	if err != nil {
		log.WithError(err).WithFields(logger.Fields{
			"at":      "(Domain) OpenEndpoint",
			"role":    role.String(),
			"address": addr.String(),
		}).Debug("open failed, releasing socket")
		ep.abort()
		d.Stats.Inc(StatOpenFailures)
		return nil, err
	}

	d.Stats.Inc(StatEndpointsOpened)
	if role == transport.Listener {
		d.Stats.Inc(StatListenersOpened)
	} else {
		d.Stats.Inc(StatOriginatorsOpened)
	}
	log.WithFields(logger.Fields{
		"at":        "(Domain) OpenEndpoint",
		"endpoint":  ep.String(),
		"fd":        ep.fd,
		"activated": ep.activated,
		"capture":   ep.captureEnabled,
	}).Debug("endpoint open")
	return ep, nil
}

// checkRequest validates the request before any OS interaction.
func (d *Domain) checkRequest(role transport.Role, addr transport.Address) error {
	if addr.Family() != transport.FamilyInet || !transport.Supported(addr.Family()) {
		return transport.NewError(transport.KindUnsupportedFamily, "open "+addr.Family().String(), nil)
	}
	switch role {
	case transport.Listener:
		if !d.ListenSupport || !d.Settings.ListenEnabled() {
			return transport.NewError(transport.KindListenDisabled, "open listener "+addr.String(), nil)
		}
	case transport.Originator:
	default:
		return oops.Errorf("invalid endpoint role %d", role)
	}
	return nil
}

// acquire returns a supervisor provided socket for listeners when one
// matches, and otherwise creates a new one.
func (d *Domain) acquire(role transport.Role, addr transport.Address) (int, bool, error) {
	if role == transport.Listener {
		if fd, ok := d.Activation.Find(addr.Family(), SockDgram, addr.Port()); ok {
			d.Stats.Inc(StatActivationReuses)
			return fd, true, nil
		}
	}
	fd, err := d.Sockets.Socket(addr.Family())
	if err != nil || fd < 0 {
		log.WithError(err).WithField("role", role.String()).Error("failed to create UDP socket")
		return -1, false, transport.NewError(transport.KindSocketCreate, "socket", err)
	}
	log.WithFields(logger.Fields{
		"at":   "(Domain) acquire",
		"fd":   fd,
		"role": role.String(),
	}).Debug("opened socket")
	return fd, false, nil
}

func (d *Domain) setupListener(ep *Endpoint, addr transport.Address) error {
	enabled, err := d.Capture.Apply(d.Sockets, ep.fd)
	if err != nil {
		log.WithError(err).WithField("mechanism", d.Capture.Name()).Error("couldn't enable destination address capture")
		return err
	}
	ep.captureEnabled = enabled
	if !enabled {
		d.Stats.Inc(StatCaptureUnavailable)
		log.WithField("mechanism", d.Capture.Name()).Debug("listener runs without destination address capture")
	}

	if !ep.activated {
		if err := d.Sockets.Bind(ep.fd, addr); err != nil {
			return transport.NewError(transport.KindBind, "bind "+addr.String(), err)
		}
	}

	local, err := d.Sockets.LocalAddr(ep.fd)
	if err != nil {
		log.WithError(err).WithField("address", addr.String()).Warn("getsockname failed, recording requested address")
		local = addr
	}
	enc, err := transport.Encode(local)
	if err != nil {
		return err
	}
	ep.local = &enc
	return nil
}

func (d *Domain) setupOriginator(ep *Endpoint, addr transport.Address) error {
	pair := &AddressPair{Remote: addr}

	if text := d.Settings.ClientAddress(); text != "" {
		spec := ClientSourceSpec{Text: text, UsesPort: d.Settings.ClientAddressUsesPort()}
		local, err := BindClientSource(d.Sockets, ep.fd, spec, d.Resolver)
		if err != nil {
			return err
		}
		enc, err := transport.Encode(local)
		if err != nil {
			return err
		}
		pair.Local = local
		ep.local = &enc
	}

	remote, err := transport.Encode(addr)
	if err != nil {
		return err
	}
	ep.remote = &remote
	ep.pair = pair
	return nil
}

func isAllDigits(s string) bool {
	return s != "" && strings.Trim(s, "0123456789") == ""
}
