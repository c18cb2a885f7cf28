package transport

import (
	"encoding/binary"
	"fmt"
	"net/netip"
)

// Codec converts Addresses of one family to and from their opaque
// fixed-length encoding.
type Codec interface {
	Family() Family
	// Size is the canonical encoded length for the family.
	Size() int
	Encode(a Address) ([]byte, error)
	Decode(b []byte) (Address, error)
}

// ipv4EncodingSize is 4 address bytes followed by a big-endian port.
const ipv4EncodingSize = 6

type ipv4Codec struct{}

func (ipv4Codec) Family() Family { return FamilyInet }

func (ipv4Codec) Size() int { return ipv4EncodingSize }

func (ipv4Codec) Encode(a Address) ([]byte, error) {
	if a.family != FamilyInet || !a.ip.Is4() {
		return nil, NewError(KindUnsupportedFamily, "encode "+a.family.String(), nil)
	}
	ip := a.ip.As4()
	b := make([]byte, ipv4EncodingSize)
	copy(b, ip[:])
	binary.BigEndian.PutUint16(b[4:], a.port)
	return b, nil
}

func (ipv4Codec) Decode(b []byte) (Address, error) {
	if len(b) != ipv4EncodingSize {
		return Address{}, NewError(KindInvalidEncoding,
			fmt.Sprintf("decode inet: %d bytes, want %d", len(b), ipv4EncodingSize), nil)
	}
	var ip [4]byte
	copy(ip[:], b[:4])
	return IPv4Address(ip, binary.BigEndian.Uint16(b[4:])), nil
}

// codecs is keyed by family; a family without an entry is unsupported.
var codecs = map[Family]Codec{
	FamilyInet: ipv4Codec{},
}

// CodecFor returns the codec registered for f.
func CodecFor(f Family) (Codec, bool) {
	c, ok := codecs[f]
	return c, ok
}

// Supported reports whether addresses of family f can be encoded.
func Supported(f Family) bool {
	_, ok := codecs[f]
	return ok
}

// Encoding is the family-tagged opaque byte form of an Address. Its length
// always equals the canonical size for its family.
type Encoding struct {
	family Family
	b      []byte
}

// NewEncoding validates raw bytes against the family's canonical size.
func NewEncoding(f Family, b []byte) (Encoding, error) {
	c, ok := codecs[f]
	if !ok {
		return Encoding{}, NewError(KindUnsupportedFamily, "encoding "+f.String(), nil)
	}
	if len(b) != c.Size() {
		return Encoding{}, NewError(KindInvalidEncoding,
			fmt.Sprintf("encoding %s: %d bytes, want %d", f, len(b), c.Size()), nil)
	}
	return Encoding{family: f, b: append([]byte(nil), b...)}, nil
}

// Encode produces the canonical encoding of a.
func Encode(a Address) (Encoding, error) {
	c, ok := codecs[a.family]
	if !ok {
		return Encoding{}, NewError(KindUnsupportedFamily, "encode "+a.family.String(), nil)
	}
	b, err := c.Encode(a)
	if err != nil {
		return Encoding{}, err
	}
	return Encoding{family: a.family, b: b}, nil
}

// Decode is the inverse of Encode.
func Decode(e Encoding) (Address, error) {
	c, ok := codecs[e.family]
	if !ok {
		return Address{}, NewError(KindUnsupportedFamily, "decode "+e.family.String(), nil)
	}
	return c.Decode(e.b)
}

// Family returns the family the bytes were encoded for.
func (e Encoding) Family() Family { return e.family }

func (e Encoding) Len() int { return len(e.b) }

// Bytes returns a copy of the encoded bytes.
func (e Encoding) Bytes() []byte {
	return append([]byte(nil), e.b...)
}

// IsZero reports an empty encoding.
func (e Encoding) IsZero() bool { return len(e.b) == 0 }

func (e Encoding) String() string {
	return FormatEncoding(e)
}

// FormatEncoding renders an encoding as "IP:port" for diagnostics.
func FormatEncoding(e Encoding) string {
	a, err := Decode(e)
	if err != nil {
		return "<invalid>"
	}
	return netip.AddrPortFrom(a.ip, a.port).String()
}
