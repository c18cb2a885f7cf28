package udp

import (
	"errors"
	"net/netip"
	"syscall"
	"testing"

	"github.com/go-i2p/go-udptransport/lib/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAddr(t *testing.T, s string) transport.Address {
	t.Helper()
	a, err := transport.ParseAddress(s)
	require.NoError(t, err)
	return a
}

func TestOpenUnsupportedFamilyMakesNoSocket(t *testing.T) {
	d, fs := newTestDomain(StaticSettings{})

	v6 := transport.AddressFromAddrPort(netip.MustParseAddrPort("[2001:db8::1]:161"))
	for _, role := range []transport.Role{transport.Listener, transport.Originator} {
		_, err := d.OpenEndpoint(role, v6)
		require.Error(t, err)
		assert.True(t, errors.Is(err, transport.ErrUnsupportedFamily), role.String())

		_, err = d.OpenEndpoint(role, transport.Address{})
		assert.True(t, errors.Is(err, transport.ErrUnsupportedFamily), role.String())
	}
	assert.Zero(t, fs.calls["socket"])
	assert.Zero(t, fs.calls["setsockopt"])
	assert.Zero(t, fs.calls["bind"])
	assert.Equal(t, uint64(4), d.Stats.Value(StatOpenFailures))
}

func TestOpenListenerDisabled(t *testing.T) {
	t.Run("by configuration", func(t *testing.T) {
		d, fs := newTestDomain(StaticSettings{DisableListen: true})
		_, err := d.OpenEndpoint(transport.Listener, mustAddr(t, "0.0.0.0:161"))
		assert.True(t, errors.Is(err, transport.ErrListenDisabled))
		assert.Zero(t, fs.calls["socket"])
	})
	t.Run("by build", func(t *testing.T) {
		d, fs := newTestDomain(StaticSettings{})
		d.ListenSupport = false
		_, err := d.OpenEndpoint(transport.Listener, mustAddr(t, "0.0.0.0:161"))
		assert.True(t, errors.Is(err, transport.ErrListenDisabled))
		assert.Zero(t, fs.calls["socket"])

		// originators are unaffected
		ep, err := d.OpenEndpoint(transport.Originator, mustAddr(t, "192.0.2.1:161"))
		require.NoError(t, err)
		require.NoError(t, ep.Close())
	})
}

func TestOpenInvalidRole(t *testing.T) {
	d, fs := newTestDomain(StaticSettings{})
	_, err := d.OpenEndpoint(transport.Role(0), mustAddr(t, "192.0.2.1:161"))
	assert.Error(t, err)
	assert.Zero(t, fs.calls["socket"])
}

func TestOpenListener(t *testing.T) {
	d, fs := newTestDomain(StaticSettings{})

	ep, err := d.OpenEndpoint(transport.Listener, mustAddr(t, "127.0.0.1:1161"))
	require.NoError(t, err)

	assert.Equal(t, transport.Listener, ep.Role())
	assert.True(t, ep.CaptureEnabled())
	assert.False(t, ep.Activated())
	assert.Equal(t, 1, fs.calls["bind"])
	assert.Equal(t, 1, fs.optCount(testCaptureOpt))

	local, ok := ep.Local()
	require.True(t, ok)
	assert.Equal(t, []byte{127, 0, 0, 1, 0x04, 0x89}, local.Bytes())
	_, ok = ep.Remote()
	assert.False(t, ok, "listeners never record a remote address")
	_, ok = ep.AddressPair()
	assert.False(t, ok)
	assert.Equal(t, "UDP: [127.0.0.1:1161]->[*]", ep.String())

	assert.Equal(t, uint64(1), d.Stats.Value(StatEndpointsOpened))
	assert.Equal(t, uint64(1), d.Stats.Value(StatListenersOpened))

	fd := ep.Fd()
	require.NoError(t, ep.Close())
	ep.Free()
	assert.Equal(t, -1, ep.Fd())
	assert.False(t, fs.open[fd])
	_, ok = ep.Local()
	assert.False(t, ok)
}

func TestOpenListenerRecordsOSBoundAddress(t *testing.T) {
	d, fs := newTestDomain(StaticSettings{})
	actual := mustAddr(t, "0.0.0.0:40001")
	fs.localOverride = &actual

	ep, err := d.OpenEndpoint(transport.Listener, mustAddr(t, "0.0.0.0:0"))
	require.NoError(t, err)
	defer ep.Close()

	local, ok := ep.Local()
	require.True(t, ok)
	a, err := transport.Decode(local)
	require.NoError(t, err)
	assert.Equal(t, uint16(40001), a.Port())
}

func TestOpenListenerActivationSkipsBind(t *testing.T) {
	d, fs := newTestDomain(StaticSettings{})
	act := &fakeActivation{fd: 42, port: 161}
	fs.open[42] = true
	d.Activation = act

	ep, err := d.OpenEndpoint(transport.Listener, mustAddr(t, "0.0.0.0:161"))
	require.NoError(t, err)

	assert.Equal(t, 1, act.calls)
	assert.True(t, ep.Activated())
	assert.Equal(t, 42, ep.Fd())
	assert.Zero(t, fs.calls["socket"], "activated socket must not be recreated")
	assert.Zero(t, fs.calls["bind"], "activated socket must not be rebound")
	assert.Equal(t, 1, fs.optCount(testCaptureOpt), "capture is still configured")
	assert.True(t, ep.CaptureEnabled())
	assert.Equal(t, uint64(1), d.Stats.Value(StatActivationReuses))

	require.NoError(t, ep.Close())
	assert.False(t, fs.open[42], "endpoint owns and closes the activated socket")
}

func TestOpenListenerActivationMissCreatesSocket(t *testing.T) {
	d, fs := newTestDomain(StaticSettings{})
	act := &fakeActivation{fd: 42, port: 162}
	d.Activation = act

	ep, err := d.OpenEndpoint(transport.Listener, mustAddr(t, "0.0.0.0:161"))
	require.NoError(t, err)
	defer ep.Close()

	assert.False(t, ep.Activated())
	assert.Equal(t, 1, fs.calls["socket"])
	assert.Equal(t, 1, fs.calls["bind"])
}

func TestOriginatorNeverUsesActivation(t *testing.T) {
	d, _ := newTestDomain(StaticSettings{})
	act := &fakeActivation{fd: 42, port: 161}
	d.Activation = act

	ep, err := d.OpenEndpoint(transport.Originator, mustAddr(t, "192.0.2.1:161"))
	require.NoError(t, err)
	defer ep.Close()
	assert.Zero(t, act.calls)
	assert.False(t, ep.Activated())
}

func TestOpenSocketCreateError(t *testing.T) {
	for _, role := range []transport.Role{transport.Listener, transport.Originator} {
		t.Run(role.String(), func(t *testing.T) {
			d, fs := newTestDomain(StaticSettings{ClientAddr: "10.0.0.5", Reuse: true, ServerRecvBuf: 65536})
			fs.socketErr = syscall.EMFILE

			ep, err := d.OpenEndpoint(role, mustAddr(t, "127.0.0.1:161"))
			assert.Nil(t, ep)
			require.Error(t, err)
			assert.True(t, errors.Is(err, transport.ErrSocketCreate))
			assert.True(t, errors.Is(err, &transport.Error{Kind: transport.KindSocketCreate, Errno: syscall.EMFILE}))

			var te *transport.Error
			require.True(t, errors.As(err, &te))
			assert.Equal(t, syscall.EMFILE, te.Errno)

			assert.Zero(t, fs.calls["setsockopt"])
			assert.Zero(t, fs.calls["bind"])
			assert.Zero(t, fs.openCount())
		})
	}
}

func TestOpenCaptureConfigErrorIsFatal(t *testing.T) {
	d, fs := newTestDomain(StaticSettings{})
	fs.failOpt = testCaptureOpt
	fs.failOptErr = syscall.ENOPROTOOPT

	ep, err := d.OpenEndpoint(transport.Listener, mustAddr(t, "0.0.0.0:161"))
	assert.Nil(t, ep)
	require.Error(t, err)
	assert.True(t, errors.Is(err, transport.ErrCaptureConfig))
	assert.Equal(t, transport.KindCaptureConfig, transport.KindOf(err))
	assert.Zero(t, fs.calls["bind"], "no bind after capture failure")
	assert.Zero(t, fs.openCount(), "socket closed on failure")
}

func TestOpenWithoutCaptureMechanism(t *testing.T) {
	d, fs := newTestDomain(StaticSettings{})
	d.Capture = NoCapture{}

	ep, err := d.OpenEndpoint(transport.Listener, mustAddr(t, "0.0.0.0:161"))
	require.NoError(t, err)
	defer ep.Close()

	assert.False(t, ep.CaptureEnabled())
	assert.Equal(t, 1, fs.calls["bind"])
	assert.Equal(t, uint64(1), d.Stats.Value(StatCaptureUnavailable))
}

func TestOpenListenerBindError(t *testing.T) {
	d, fs := newTestDomain(StaticSettings{})
	fs.bindErr = syscall.EADDRINUSE

	ep, err := d.OpenEndpoint(transport.Listener, mustAddr(t, "0.0.0.0:161"))
	assert.Nil(t, ep)
	assert.True(t, errors.Is(err, transport.ErrBind))
	assert.True(t, errors.Is(err, syscall.EADDRINUSE))
	assert.Zero(t, fs.openCount())
	assert.Equal(t, uint64(1), d.Stats.Value(StatOpenFailures))
}

func TestOpenOriginatorWithoutClientSource(t *testing.T) {
	d, fs := newTestDomain(StaticSettings{})

	ep, err := d.OpenEndpoint(transport.Originator, mustAddr(t, "192.0.2.1:161"))
	require.NoError(t, err)
	defer ep.Close()

	assert.Zero(t, fs.calls["bind"])
	_, ok := ep.Local()
	assert.False(t, ok, "no local address without a client source")
	remote, ok := ep.Remote()
	require.True(t, ok)
	assert.Equal(t, "192.0.2.1:161", transport.FormatEncoding(remote))

	pair, ok := ep.AddressPair()
	require.True(t, ok)
	assert.Equal(t, "192.0.2.1:161", pair.Remote.String())
	assert.False(t, pair.Local.IsValid())
	assert.Equal(t, "UDP: [*]->[192.0.2.1:161]", ep.String())
}

func TestOpenOriginatorClientSource(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		usesPort bool
		wantBind string
	}{
		{"host only, port ignored", "10.0.0.5", false, "10.0.0.5:0"},
		{"host and port honoured", "10.0.0.5:9000", true, "10.0.0.5:9000"},
		{"host only, port expected", "10.0.0.5", true, "10.0.0.5:0"},
		// an explicit port is discarded unless the port flag is set
		{"explicit port discarded", "10.0.0.5:9000", false, "10.0.0.5:0"},
		{"name lookup", "agent.example:7000", true, "192.0.2.7:7000"},
		{"wildcard host", ":7000", true, "0.0.0.0:7000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, fs := newTestDomain(StaticSettings{ClientAddr: tt.text, ClientAddrUsesPort: tt.usesPort})

			ep, err := d.OpenEndpoint(transport.Originator, mustAddr(t, "192.0.2.1:161"))
			require.NoError(t, err)
			defer ep.Close()

			assert.Equal(t, 1, fs.calls["bind"])
			assert.Equal(t, tt.wantBind, fs.bound[ep.Fd()].String())

			local, ok := ep.Local()
			require.True(t, ok)
			assert.Equal(t, tt.wantBind, transport.FormatEncoding(local))
			pair, ok := ep.AddressPair()
			require.True(t, ok)
			assert.Equal(t, tt.wantBind, pair.Local.String())
		})
	}
}

func TestOpenOriginatorClientSourceFailures(t *testing.T) {
	t.Run("resolution", func(t *testing.T) {
		d, fs := newTestDomain(StaticSettings{ClientAddr: "nowhere.invalid"})
		ep, err := d.OpenEndpoint(transport.Originator, mustAddr(t, "192.0.2.1:161"))
		assert.Nil(t, ep)
		assert.True(t, errors.Is(err, transport.ErrAddressResolution))
		assert.Zero(t, fs.calls["bind"])
		assert.Zero(t, fs.openCount())
	})
	t.Run("bad port", func(t *testing.T) {
		d, fs := newTestDomain(StaticSettings{ClientAddr: "10.0.0.5:http", ClientAddrUsesPort: true})
		_, err := d.OpenEndpoint(transport.Originator, mustAddr(t, "192.0.2.1:161"))
		assert.True(t, errors.Is(err, transport.ErrAddressResolution))
		assert.Zero(t, fs.openCount())
	})
	t.Run("bind", func(t *testing.T) {
		d, fs := newTestDomain(StaticSettings{ClientAddr: "10.0.0.5"})
		fs.bindErr = syscall.EADDRNOTAVAIL
		_, err := d.OpenEndpoint(transport.Originator, mustAddr(t, "192.0.2.1:161"))
		assert.True(t, errors.Is(err, transport.ErrBind))
		assert.True(t, errors.Is(err, &transport.Error{Kind: transport.KindBind, Errno: syscall.EADDRNOTAVAIL}))
		assert.Zero(t, fs.openCount())
	})
}

func TestGenericSocketOptions(t *testing.T) {
	d, fs := newTestDomain(StaticSettings{
		Reuse:         true,
		ServerRecvBuf: 1 << 16,
		ClientSendBuf: 1 << 15,
	})

	lep, err := d.OpenEndpoint(transport.Listener, mustAddr(t, "0.0.0.0:161"))
	require.NoError(t, err)
	defer lep.Close()
	assert.Equal(t, 1, fs.optCount(soReuseAddr))
	assert.Equal(t, 1, fs.optCount(soRcvBuf))
	assert.Zero(t, fs.optCount(soSndBuf))

	oep, err := d.OpenEndpoint(transport.Originator, mustAddr(t, "192.0.2.1:161"))
	require.NoError(t, err)
	defer oep.Close()
	assert.Equal(t, 1, fs.optCount(soReuseAddr), "reuse applies to listeners only")
	assert.Equal(t, 1, fs.optCount(soSndBuf))
}

func TestGenericSocketOptionFailureTolerated(t *testing.T) {
	d, fs := newTestDomain(StaticSettings{ServerRecvBuf: 1 << 16})
	fs.failOpt = soRcvBuf
	fs.failOptErr = syscall.ENOBUFS

	ep, err := d.OpenEndpoint(transport.Listener, mustAddr(t, "0.0.0.0:161"))
	require.NoError(t, err)
	require.NoError(t, ep.Close())
}

func TestOpenTarget(t *testing.T) {
	d, fs := newTestDomain(StaticSettings{Port: 161})

	ep, err := d.OpenTarget("agent.example", transport.Originator)
	require.NoError(t, err)
	remote, ok := ep.Remote()
	require.True(t, ok)
	assert.Equal(t, "192.0.2.7:161", transport.FormatEncoding(remote))
	require.NoError(t, ep.Close())

	ep, err = d.OpenTarget("1162", transport.Listener)
	require.NoError(t, err)
	local, ok := ep.Local()
	require.True(t, ok)
	assert.Equal(t, "0.0.0.0:1162", transport.FormatEncoding(local))
	require.NoError(t, ep.Close())

	_, err = d.OpenTarget("nowhere.invalid:161", transport.Originator)
	assert.True(t, errors.Is(err, transport.ErrAddressResolution))
	assert.Zero(t, fs.openCount())
}

func TestDomainImplementsTransportDomain(t *testing.T) {
	var d transport.Domain = NewDomain(nil)
	assert.Equal(t, "UDP/IPv4", d.Name())
	assert.Contains(t, d.Prefixes(), "udp")

	// a failed Open yields a nil interface, not a typed nil
	ep, err := d.Open(transport.Listener, transport.Address{})
	assert.Error(t, err)
	assert.Nil(t, ep)
}
