// Package rtuuid implements UUID v4/v5/v7 generation and encoding per
// RFC 9562, wired on github.com/google/uuid for the actual generation
// algorithms and re-sliced into a {high, low} 64-bit-pair layout with
// hand-written version/variant accessors over that layout.
package rtuuid

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	guuid "github.com/google/uuid"
)

// UUID is a 128-bit value held as two 64-bit halves: version nibble
// in high (bits 15-12), variant bits in low (bits 63-62).
type UUID struct {
	High uint64
	Low  uint64
}

// Predefined RFC 9562 namespaces.
var (
	NamespaceDNS  = fromGoogle(guuid.NameSpaceDNS)
	NamespaceURL  = fromGoogle(guuid.NameSpaceURL)
	NamespaceOID  = fromGoogle(guuid.NameSpaceOID)
	NamespaceX500 = fromGoogle(guuid.NameSpaceX500)
)

func fromGoogle(g guuid.UUID) UUID {
	b := g[:]
	return UUID{
		High: beUint64(b[0:8]),
		Low:  beUint64(b[8:16]),
	}
}

func (u UUID) toGoogle() guuid.UUID {
	var g guuid.UUID
	putBeUint64(g[0:8], u.High)
	putBeUint64(g[8:16], u.Low)
	return g
}

func beUint64(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

func putBeUint64(b []byte, v uint64) {
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
}

// V4 generates a random UUID.
func V4() UUID {
	return fromGoogle(guuid.New())
}

// V5 generates a deterministic SHA-1 name-based UUID: the same
// (namespace, name) always yields the same UUID.
func V5(namespace UUID, name string) UUID {
	return fromGoogle(guuid.NewSHA1(namespace.toGoogle(), []byte(name)))
}

// V7 generates a time-ordered UUID whose timestamps are non-decreasing
// across successive calls within a process.
func V7() (UUID, error) {
	g, err := guuid.NewV7()
	if err != nil {
		return UUID{}, fmt.Errorf("rtuuid: v7 generation: %w", err)
	}
	return fromGoogle(g), nil
}

// GetVersion returns the generation-algorithm version (4, 5 or 7),
// read from bits 15-12 of High.
func (u UUID) GetVersion() int {
	return int((u.High >> 12) & 0xF)
}

// GetVariant returns the RFC-variant family: 0=NCS, 1=RFC 4122/9562
// (bit pattern 10), 2=Microsoft, 3=future, read from bits 63-62 of
// Low. Every UUID this package produces has variant 1.
func (u UUID) GetVariant() int {
	top := u.Low >> 62
	switch {
	case top>>1 == 0:
		return 0
	case top == 0b10:
		return 1
	case top == 0b11:
		if (u.Low>>61)&1 == 0 {
			return 2
		}
		return 3
	default:
		return 1
	}
}

// ToString renders the canonical lowercase
// xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx form.
func (u UUID) ToString() string {
	return u.toGoogle().String()
}

// ToHex renders 32 hex characters with no dashes.
func (u UUID) ToHex() string {
	b := u.ToBytes()
	return hex.EncodeToString(b)
}

// ToBytes renders the 16 bytes in network (big-endian) order.
func (u UUID) ToBytes() []byte {
	b := make([]byte, 16)
	putBeUint64(b[0:8], u.High)
	putBeUint64(b[8:16], u.Low)
	return b
}

// ToBase64 renders a 22-character URL-safe base64 encoding with no
// padding.
func (u UUID) ToBase64() string {
	return base64.RawURLEncoding.EncodeToString(u.ToBytes())
}

// FromString parses the canonical 36-char dashed form, case-insensitive
// for hex digits; any other length or character yields an error.
func FromString(s string) (UUID, error) {
	g, err := guuid.Parse(strings.ToLower(s))
	if err != nil {
		return UUID{}, fmt.Errorf("rtuuid: invalid string form: %w", err)
	}
	if len(s) != 36 {
		return UUID{}, fmt.Errorf("rtuuid: invalid string form: wrong length %d", len(s))
	}
	return fromGoogle(g), nil
}

// FromHex parses exactly 32 case-insensitive hex characters.
func FromHex(s string) (UUID, error) {
	if len(s) != 32 {
		return UUID{}, fmt.Errorf("rtuuid: invalid hex form: wrong length %d", len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return UUID{}, fmt.Errorf("rtuuid: invalid hex form: %w", err)
	}
	return FromBytes(b)
}

// FromBytes parses exactly 16 bytes in network order.
func FromBytes(b []byte) (UUID, error) {
	if len(b) != 16 {
		return UUID{}, fmt.Errorf("rtuuid: invalid byte form: wrong length %d", len(b))
	}
	return UUID{High: beUint64(b[0:8]), Low: beUint64(b[8:16])}, nil
}

// FromBase64 parses a 22-char URL-safe base64 encoding with no padding.
func FromBase64(s string) (UUID, error) {
	if len(s) != 22 {
		return UUID{}, fmt.Errorf("rtuuid: invalid base64 form: wrong length %d", len(s))
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return UUID{}, fmt.Errorf("rtuuid: invalid base64 form: %w", err)
	}
	return FromBytes(b)
}
