package udp

import (
	"net/netip"
	"sync"
	"syscall"

	"github.com/go-i2p/go-udptransport/lib/transport"
)

type sockoptCall struct {
	fd, level, opt, value int
}

// fakeSockets records every call and keeps track of open descriptors so
// tests can assert that nothing leaks.
type fakeSockets struct {
	mu sync.Mutex

	nextFd    int
	socketErr error
	bindErr   error
	// failOpt makes SetsockoptInt fail for this option number.
	failOpt    int
	failOptErr error
	// localOverride replaces the bound address reported by LocalAddr.
	localOverride *transport.Address

	calls    map[string]int
	open     map[int]bool
	bound    map[int]transport.Address
	sockopts []sockoptCall
}

func newFakeSockets() *fakeSockets {
	return &fakeSockets{
		nextFd:  10,
		failOpt: -1,
		calls:   make(map[string]int),
		open:    make(map[int]bool),
		bound:   make(map[int]transport.Address),
	}
}

func (f *fakeSockets) Socket(family transport.Family) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["socket"]++
	if f.socketErr != nil {
		return -1, f.socketErr
	}
	fd := f.nextFd
	f.nextFd++
	f.open[fd] = true
	return fd, nil
}

func (f *fakeSockets) SetsockoptInt(fd, level, opt, value int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["setsockopt"]++
	f.sockopts = append(f.sockopts, sockoptCall{fd, level, opt, value})
	if opt == f.failOpt {
		return f.failOptErr
	}
	return nil
}

func (f *fakeSockets) Bind(fd int, addr transport.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["bind"]++
	if f.bindErr != nil {
		return f.bindErr
	}
	f.bound[fd] = addr
	return nil
}

func (f *fakeSockets) LocalAddr(fd int) (transport.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["getsockname"]++
	if f.localOverride != nil {
		return *f.localOverride, nil
	}
	if a, ok := f.bound[fd]; ok {
		return a, nil
	}
	return transport.IPv4Address([4]byte{}, 0), nil
}

func (f *fakeSockets) Close(fd int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["close"]++
	if !f.open[fd] {
		return syscall.EBADF
	}
	delete(f.open, fd)
	return nil
}

func (f *fakeSockets) openCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.open)
}

func (f *fakeSockets) optCount(opt int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.sockopts {
		if c.opt == opt {
			n++
		}
	}
	return n
}

// fakeActivation hands out a single descriptor for a given port.
type fakeActivation struct {
	fd    int
	port  uint16
	found bool
	calls int
}

func (a *fakeActivation) Find(family transport.Family, typ SocketType, port uint16) (int, bool) {
	a.calls++
	if a.found || family != transport.FamilyInet || typ != SockDgram || port != a.port {
		return -1, false
	}
	a.found = true
	return a.fd, true
}

type fakeResolver map[string]netip.Addr

func (r fakeResolver) LookupIPv4(host string) (netip.Addr, error) {
	if ip, err := netip.ParseAddr(host); err == nil {
		return ip, nil
	}
	if ip, ok := r[host]; ok {
		return ip, nil
	}
	return netip.Addr{}, syscall.EINVAL
}

// testCaptureOpt is a socket option number no fake call uses otherwise.
const testCaptureOpt = 9001

func newTestDomain(settings SettingsProvider) (*Domain, *fakeSockets) {
	fs := newFakeSockets()
	d := NewDomain(settings)
	d.Sockets = fs
	d.Activation = NoActivation{}
	d.Capture = SockoptCapture{Option: "TEST_PKTINFO", Level: 0, Opt: testCaptureOpt}
	d.Resolver = fakeResolver{"agent.example": netip.MustParseAddr("192.0.2.7")}
	d.ListenSupport = true
	return d, fs
}
