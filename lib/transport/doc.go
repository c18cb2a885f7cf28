// Package transport is the datagram transport abstraction used by the
// protocol engine.
//
// # Overview
//
// An Endpoint is a bound datagram socket in one of two roles:
//   - Listener: bound to a local address, receives inbound traffic
//   - Originator: sends toward a fixed peer, optionally from a configured
//     client source address
//
// Addresses travel through the engine in a family-agnostic opaque form
// (Encoding). Each family has a Codec; IPv4 encodes as 4 address bytes
// followed by the port in network byte order.
//
// # Domains
//
// Concrete transports implement Domain. The UDP/IPv4 domain lives in
// lib/transport/udp. A DomainMux selects a domain by target prefix
// ("udp:10.0.0.1:161") and bounds the number of open endpoints.
//
// # Errors
//
// Construction failures are reported as *Error values whose Kind can be
// tested with errors.Is against ErrUnsupportedFamily, ErrBind and the other
// sentinels. A failed open never returns a partially built endpoint.
//
// # Usage Example
//
//	mux := transport.Mux(udp.NewDomain(config.NewViperSettings(nil)))
//	ep, err := mux.Open("udp:127.0.0.1:1161", transport.Listener)
//	if err != nil {
//	    return err
//	}
//	defer mux.Release(ep)
package transport
