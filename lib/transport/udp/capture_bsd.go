//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package udp

import "golang.org/x/sys/unix"

var platformCapture CaptureStrategy = SockoptCapture{
	Option: "IP_RECVDSTADDR",
	Level:  unix.IPPROTO_IP,
	Opt:    unix.IP_RECVDSTADDR,
}
