// Package hash implements the 32-byte content digest used to address
// every object, ref target, and pack entry in the engine.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrInvalidOid is returned when a string or byte slice cannot be
// parsed into an Oid.
var ErrInvalidOid = errors.New("invalid oid")

// Size is the length, in bytes, of an Oid.
const Size = sha256.Size

// HexSize is the length of an Oid's hex-encoded string form.
const HexSize = Size * 2

// NullOid is the distinguished zero digest. It is never the id of a
// stored object.
var NullOid = Oid{}

// Oid is the content digest of an object: SHA-256 over its canonical
// bytes.
type Oid [Size]byte

// Sum computes the Oid of the given bytes.
func Sum(b []byte) Oid {
	return sha256.Sum256(b)
}

// FromHex parses a 64-character lowercase hex string into an Oid.
func FromHex(s string) (Oid, error) {
	if len(s) != HexSize {
		return NullOid, ErrInvalidOid
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return NullOid, ErrInvalidOid
	}
	return FromBytes(b)
}

// FromChars is FromHex over a byte slice containing the ASCII hex
// characters (as opposed to the 32 raw bytes FromBytes expects).
func FromChars(s []byte) (Oid, error) {
	return FromHex(string(s))
}

// FromBytes casts a 32-byte raw digest into an Oid.
func FromBytes(b []byte) (Oid, error) {
	if len(b) != Size {
		return NullOid, ErrInvalidOid
	}
	var oid Oid
	copy(oid[:], b)
	return oid, nil
}

// Bytes returns the raw 32-byte digest.
func (o Oid) Bytes() []byte {
	return o[:]
}

// String renders the Oid as 64 lowercase hex characters.
func (o Oid) String() string {
	return hex.EncodeToString(o[:])
}

// IsZero returns whether o is the NullOid.
func (o Oid) IsZero() bool {
	return o == NullOid
}

// Prefix returns the first two hex characters, used as the loose
// object directory name.
func (o Oid) Prefix() string {
	return o.String()[:2]
}

// Suffix returns the remaining 62 hex characters, used as the loose
// object file name within its prefix directory.
func (o Oid) Suffix() string {
	return o.String()[2:]
}

// IsHex returns whether s is a well-formed 64-character lowercase hex
// Oid literal, without actually allocating an Oid.
func IsHex(s string) bool {
	if len(s) != HexSize {
		return false
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}
