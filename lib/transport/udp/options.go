package udp

import (
	"github.com/go-i2p/go-udptransport/lib/transport"
	"github.com/go-i2p/logger"
)

// applySocketOptions sets the role-dependent generic options. None of them
// is required for a working endpoint, so failures are logged and ignored.
func (d *Domain) applySocketOptions(fd int, role transport.Role) {
	listener := role == transport.Listener
	if listener && d.Settings.ReuseAddress() {
		d.setOptionLogged(fd, soReuseAddr, "SO_REUSEADDR", 1)
	}
	recv, send := d.Settings.BufferSizes(listener)
	if recv > 0 {
		d.setOptionLogged(fd, soRcvBuf, "SO_RCVBUF", recv)
	}
	if send > 0 {
		d.setOptionLogged(fd, soSndBuf, "SO_SNDBUF", send)
	}
}

func (d *Domain) setOptionLogged(fd, opt int, name string, value int) {
	if err := d.Sockets.SetsockoptInt(fd, solSocket, opt, value); err != nil {
		log.WithError(err).WithFields(logger.Fields{
			"at":     "(Domain) applySocketOptions",
			"option": name,
			"value":  value,
			"fd":     fd,
		}).Warn("could not set socket option")
		return
	}
	log.WithFields(logger.Fields{
		"at":     "(Domain) applySocketOptions",
		"option": name,
		"value":  value,
	}).Debug("set socket option")
}
