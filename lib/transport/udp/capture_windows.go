//go:build windows

package udp

import "golang.org/x/sys/windows"

// ipPktInfo is IP_PKTINFO from ws2ipdef.h.
const ipPktInfo = 19

var platformCapture CaptureStrategy = SockoptCapture{
	Option: "IP_PKTINFO",
	Level:  windows.IPPROTO_IP,
	Opt:    ipPktInfo,
}
