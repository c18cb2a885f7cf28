package transport

import (
	"errors"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPv4EncodingLayout(t *testing.T) {
	enc, err := Encode(IPv4Address([4]byte{192, 0, 2, 1}, 161))
	require.NoError(t, err)

	assert.Equal(t, FamilyInet, enc.Family())
	assert.Equal(t, 6, enc.Len())
	assert.Equal(t, []byte{192, 0, 2, 1, 0x00, 0xa1}, enc.Bytes())
	assert.Equal(t, "192.0.2.1:161", enc.String())
}

func TestIPv4RoundTrip(t *testing.T) {
	ips := [][4]byte{{0, 0, 0, 0}, {127, 0, 0, 1}, {10, 255, 0, 7}, {255, 255, 255, 255}}
	ports := []uint16{0, 1, 161, 0x1234, 65535}
	for _, ip := range ips {
		for _, port := range ports {
			a := IPv4Address(ip, port)
			enc, err := Encode(a)
			require.NoError(t, err)
			got, err := Decode(enc)
			require.NoError(t, err)
			assert.Equal(t, a, got, a.String())
		}
	}
}

func TestEncodeUnsupportedFamily(t *testing.T) {
	v6 := AddressFromAddrPort(netip.MustParseAddrPort("[2001:db8::1]:161"))
	_, err := Encode(v6)
	assert.True(t, errors.Is(err, ErrUnsupportedFamily))

	_, err = Encode(Address{})
	assert.True(t, errors.Is(err, ErrUnsupportedFamily))

	_, ok := CodecFor(FamilyInet6)
	assert.False(t, ok)
	assert.True(t, Supported(FamilyInet))
	assert.False(t, Supported(FamilyInet6))
}

func TestNewEncodingRejectsWrongLength(t *testing.T) {
	for _, n := range []int{0, 4, 5, 7, 16} {
		_, err := NewEncoding(FamilyInet, make([]byte, n))
		assert.True(t, errors.Is(err, ErrInvalidEncoding), "%d bytes", n)
	}

	_, err := NewEncoding(FamilyInet6, make([]byte, 18))
	assert.True(t, errors.Is(err, ErrUnsupportedFamily))

	enc, err := NewEncoding(FamilyInet, []byte{10, 0, 0, 1, 0x1f, 0x90})
	require.NoError(t, err)
	a, err := Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1:8080", a.String())
}

func TestEncodingIsACopy(t *testing.T) {
	raw := []byte{10, 0, 0, 1, 0, 1}
	enc, err := NewEncoding(FamilyInet, raw)
	require.NoError(t, err)
	raw[0] = 99
	enc.Bytes()[1] = 99
	assert.Equal(t, []byte{10, 0, 0, 1, 0, 1}, enc.Bytes())
}

func TestCodecDecodeLength(t *testing.T) {
	c, ok := CodecFor(FamilyInet)
	require.True(t, ok)
	assert.Equal(t, 6, c.Size())
	_, err := c.Decode([]byte{1, 2, 3})
	assert.True(t, errors.Is(err, ErrInvalidEncoding))
}

func TestFormatEncoding(t *testing.T) {
	assert.Equal(t, "<invalid>", FormatEncoding(Encoding{}))
	enc, err := Encode(IPv4Address([4]byte{0, 0, 0, 0}, 0))
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:0", FormatEncoding(enc))
	assert.False(t, enc.IsZero())
	assert.True(t, Encoding{}.IsZero())
}
