// Package udp implements the UDP over IPv4 transport domain.
//
// Opening an endpoint runs these steps, stopping at the first failure and
// releasing everything acquired so far:
//
//  1. check the address family and, for listeners, that listening is enabled
//  2. listeners: ask the ActivationProvider for a supervisor-bound socket
//  3. otherwise create a new datagram socket
//  4. apply the generic options (SO_REUSEADDR, buffer sizes)
//  5. listeners: enable destination address capture, bind unless the socket
//     was inherited, record the bound local address
//  6. originators: bind to the configured client source address if any,
//     record the peer as the remote address
//
// Destination capture uses IP_PKTINFO on Linux and Windows and
// IP_RECVDSTADDR on the BSDs and Darwin. Elsewhere listeners run without it.
package udp
