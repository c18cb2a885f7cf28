package udp

import (
	"context"
	"net"
	"net/netip"
	"strconv"
	"strings"

	"github.com/go-i2p/go-udptransport/lib/transport"
	"github.com/go-i2p/logger"
	"github.com/samber/oops"
)

// ClientSourceSpec is the configured local address originators send from.
type ClientSourceSpec struct {
	// Text is "host[:port]".
	Text string
	// UsesPort keeps the port from Text. When false the bind always uses
	// an ephemeral port, even if Text names one.
	UsesPort bool
}

// HostResolver maps a host name or literal to an IPv4 address.
type HostResolver interface {
	LookupIPv4(host string) (netip.Addr, error)
}

type netResolver struct {
	r *net.Resolver
}

// DefaultResolver parses literals directly and looks names up with the
// system resolver.
func DefaultResolver() HostResolver {
	return netResolver{r: net.DefaultResolver}
}

func (n netResolver) LookupIPv4(host string) (netip.Addr, error) {
	if ip, err := netip.ParseAddr(host); err == nil {
		return ip.Unmap(), nil
	}
	ips, err := n.r.LookupNetIP(context.Background(), "ip4", host)
	if err != nil {
		return netip.Addr{}, err
	}
	for _, ip := range ips {
		if ip = ip.Unmap(); ip.Is4() {
			return ip, nil
		}
	}
	return netip.Addr{}, oops.Errorf("no IPv4 address for %q", host)
}

// ResolveClientSource turns a client source setting into a bind address.
func ResolveClientSource(spec ClientSourceSpec, r HostResolver) (transport.Address, error) {
	text := spec.Text
	if spec.UsesPort && !strings.Contains(text, ":") {
		// a port is expected but none was given: ask for an ephemeral one
		text += ":0"
	}
	addr, err := resolveHostPort(text, 0, r)
	if err != nil {
		return transport.Address{}, err
	}
	if !spec.UsesPort {
		addr = addr.WithPort(0)
	}
	return addr, nil
}

// BindClientSource resolves spec, binds fd to it and returns the address
// the OS actually bound.
func BindClientSource(s Sockets, fd int, spec ClientSourceSpec, r HostResolver) (transport.Address, error) {
	addr, err := ResolveClientSource(spec, r)
	if err != nil {
		return transport.Address{}, err
	}
	log.WithFields(logger.Fields{
		"at":         "BindClientSource",
		"fd":         fd,
		"clientaddr": spec.Text,
		"bind":       addr.String(),
	}).Debug("binding originator to client source address")
	if err := s.Bind(fd, addr); err != nil {
		log.WithError(err).WithField("clientaddr", spec.Text).Error("Cannot bind for clientaddr")
		return transport.Address{}, transport.NewError(transport.KindBind, "bind clientaddr "+addr.String(), err)
	}
	local, err := s.LocalAddr(fd)
	if err != nil {
		return transport.Address{}, transport.NewError(transport.KindBind, "getsockname", err)
	}
	return local, nil
}

// resolveHostPort parses "host[:port]"; an empty host is the wildcard
// address and a missing port is defaultPort.
func resolveHostPort(text string, defaultPort uint16, r HostResolver) (transport.Address, error) {
	host, portText := text, ""
	if i := strings.LastIndexByte(text, ':'); i >= 0 {
		host, portText = text[:i], text[i+1:]
	}
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")

	port := defaultPort
	if portText != "" {
		p, err := strconv.ParseUint(portText, 10, 16)
		if err != nil {
			return transport.Address{}, transport.NewError(transport.KindAddressResolution,
				"port "+strconv.Quote(portText), err)
		}
		port = uint16(p)
	}

	if host == "" {
		return transport.IPv4Address([4]byte{}, port), nil
	}
	ip, err := r.LookupIPv4(host)
	if err != nil {
		return transport.Address{}, transport.NewError(transport.KindAddressResolution,
			"resolve "+strconv.Quote(host), err)
	}
	if !ip.Is4() {
		return transport.Address{}, transport.NewError(transport.KindAddressResolution,
			"resolve "+strconv.Quote(host)+": not an IPv4 address", nil)
	}
	return transport.IPv4Address(ip.As4(), port), nil
}
