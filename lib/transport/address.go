package transport

import (
	"net/netip"
	"strconv"
)

// Family identifies a network address family.
type Family uint8

const (
	FamilyUnspec Family = iota
	FamilyInet
	FamilyInet6
)

// String returns the short family name used in logs.
func (f Family) String() string {
	switch f {
	case FamilyInet:
		return "inet"
	case FamilyInet6:
		return "inet6"
	default:
		return "unspec"
	}
}

// Address is an immutable network address: a family, an IP and a port.
// The zero value is invalid and has FamilyUnspec.
type Address struct {
	family Family
	ip     netip.Addr
	port   uint16
}

// IPv4Address builds an inet Address from raw IPv4 bytes and a port.
func IPv4Address(ip [4]byte, port uint16) Address {
	return Address{family: FamilyInet, ip: netip.AddrFrom4(ip), port: port}
}

// AddressFromAddrPort converts a netip.AddrPort. IPv4-mapped IPv6 addresses
// are unmapped to inet.
func AddressFromAddrPort(ap netip.AddrPort) Address {
	ip := ap.Addr()
	if !ip.IsValid() {
		return Address{}
	}
	if ip.Is4In6() {
		ip = ip.Unmap()
	}
	family := FamilyInet6
	if ip.Is4() {
		family = FamilyInet
	}
	return Address{family: family, ip: ip, port: ap.Port()}
}

// ParseAddress parses a literal "ip:port" (IPv6 in brackets).
func ParseAddress(s string) (Address, error) {
	ap, err := netip.ParseAddrPort(s)
	if err != nil {
		return Address{}, NewError(KindAddressResolution, "parse "+strconv.Quote(s), err)
	}
	return AddressFromAddrPort(ap), nil
}

// Family returns the address family.
func (a Address) Family() Family { return a.family }

// IP returns the host part.
func (a Address) IP() netip.Addr { return a.ip }

// Port returns the port in host byte order.
func (a Address) Port() uint16 { return a.port }

// IsValid reports whether a carries a known family and an IP.
func (a Address) IsValid() bool {
	return a.family != FamilyUnspec && a.ip.IsValid()
}

// AddrPort converts a to a netip.AddrPort.
func (a Address) AddrPort() netip.AddrPort {
	return netip.AddrPortFrom(a.ip, a.port)
}

// WithPort returns a copy of a with the port replaced.
func (a Address) WithPort(port uint16) Address {
	a.port = port
	return a
}

func (a Address) String() string {
	if !a.ip.IsValid() {
		return "<nil>"
	}
	return a.AddrPort().String()
}
