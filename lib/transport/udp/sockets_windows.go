//go:build windows

package udp

import (
	"github.com/go-i2p/go-udptransport/lib/transport"
	"golang.org/x/sys/windows"
)

// SockDgram is the datagram socket type on this platform.
const SockDgram = SocketType(windows.SOCK_DGRAM)

const (
	solSocket   = windows.SOL_SOCKET
	soReuseAddr = windows.SO_REUSEADDR
	soRcvBuf    = windows.SO_RCVBUF
	soSndBuf    = windows.SO_SNDBUF
)

type sysSockets struct{}

func (sysSockets) Socket(family transport.Family) (int, error) {
	if family != transport.FamilyInet {
		return -1, windows.ERROR_NOT_SUPPORTED
	}
	h, err := windows.Socket(windows.AF_INET, windows.SOCK_DGRAM, windows.IPPROTO_UDP)
	if err != nil {
		return -1, err
	}
	return int(h), nil
}

func (sysSockets) SetsockoptInt(fd, level, opt, value int) error {
	return windows.SetsockoptInt(windows.Handle(fd), level, opt, value)
}

func (sysSockets) Bind(fd int, addr transport.Address) error {
	if addr.Family() != transport.FamilyInet {
		return windows.ERROR_NOT_SUPPORTED
	}
	return windows.Bind(windows.Handle(fd), &windows.SockaddrInet4{Port: int(addr.Port()), Addr: addr.IP().As4()})
}

func (sysSockets) LocalAddr(fd int) (transport.Address, error) {
	sa, err := windows.Getsockname(windows.Handle(fd))
	if err != nil {
		return transport.Address{}, err
	}
	if in4, ok := sa.(*windows.SockaddrInet4); ok {
		return transport.IPv4Address(in4.Addr, uint16(in4.Port)), nil
	}
	return transport.Address{}, windows.ERROR_NOT_SUPPORTED
}

func (sysSockets) Close(fd int) error {
	return windows.Closesocket(windows.Handle(fd))
}
