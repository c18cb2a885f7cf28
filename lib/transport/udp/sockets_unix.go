//go:build unix

package udp

import (
	"github.com/go-i2p/go-udptransport/lib/transport"
	"golang.org/x/sys/unix"
)

// SockDgram is the datagram socket type on this platform.
const SockDgram = SocketType(unix.SOCK_DGRAM)

const (
	solSocket   = unix.SOL_SOCKET
	soReuseAddr = unix.SO_REUSEADDR
	soRcvBuf    = unix.SO_RCVBUF
	soSndBuf    = unix.SO_SNDBUF
)

type sysSockets struct{}

func (sysSockets) Socket(family transport.Family) (int, error) {
	if family != transport.FamilyInet {
		return -1, unix.EAFNOSUPPORT
	}
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, 0)
	if err != nil {
		return -1, err
	}
	unix.CloseOnExec(fd)
	return fd, nil
}

func (sysSockets) SetsockoptInt(fd, level, opt, value int) error {
	return unix.SetsockoptInt(fd, level, opt, value)
}

func (sysSockets) Bind(fd int, addr transport.Address) error {
	if addr.Family() != transport.FamilyInet {
		return unix.EAFNOSUPPORT
	}
	return unix.Bind(fd, &unix.SockaddrInet4{Port: int(addr.Port()), Addr: addr.IP().As4()})
}

func (sysSockets) LocalAddr(fd int) (transport.Address, error) {
	sa, err := unix.Getsockname(fd)
	if err != nil {
		return transport.Address{}, err
	}
	if in4, ok := sa.(*unix.SockaddrInet4); ok {
		return transport.IPv4Address(in4.Addr, uint16(in4.Port)), nil
	}
	return transport.Address{}, unix.EAFNOSUPPORT
}

func (sysSockets) Close(fd int) error {
	return unix.Close(fd)
}
