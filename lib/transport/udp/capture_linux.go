//go:build linux

package udp

import "golang.org/x/sys/unix"

var platformCapture CaptureStrategy = SockoptCapture{
	Option: "IP_PKTINFO",
	Level:  unix.SOL_IP,
	Opt:    unix.IP_PKTINFO,
}
