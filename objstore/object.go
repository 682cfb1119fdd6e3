// Package objstore implements the canonical object codec and the
// content-addressed loose-object store, plus typed (blob/tree/commit)
// views over the raw bytes.
package objstore

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/magicrepos/magicrepos/hash"
	"golang.org/x/xerrors"
)

// ErrMalformedObject is returned when the canonical header cannot be
// parsed: no NUL separator, missing space, unknown type token, a size
// token that isn't a non-negative integer, or a declared length that
// exceeds the available content.
var ErrMalformedObject = errors.New("malformed object")

// Type is one of the three object kinds the engine stores.
type Type int8

// Object kinds.
const (
	TypeBlob Type = iota + 1
	TypeTree
	TypeCommit
)

// String returns the textual form that participates in the canonical
// header.
func (t Type) String() string {
	switch t {
	case TypeBlob:
		return "blob"
	case TypeTree:
		return "tree"
	case TypeCommit:
		return "commit"
	default:
		return "unknown"
	}
}

// ParseType returns the Type for its textual header form.
func ParseType(s string) (Type, error) {
	switch s {
	case "blob":
		return TypeBlob, nil
	case "tree":
		return TypeTree, nil
	case "commit":
		return TypeCommit, nil
	default:
		return 0, xerrors.Errorf("unknown object type %q: %w", s, ErrMalformedObject)
	}
}

// Object is a parsed, in-memory object: a type discriminant plus the
// type-specific content (the bytes after the header). It carries no
// long-lived graph pointers; typed views (Blob/Tree/Commit) are
// produced on demand from Content.
type Object struct {
	Type    Type
	Content []byte
}

// New builds an Object from its type and content.
func New(typ Type, content []byte) *Object {
	return &Object{Type: typ, Content: content}
}

// Size returns the length of the object's content.
func (o *Object) Size() int {
	return len(o.Content)
}

// ID computes the object's digest: SHA-256 over the canonical
// uncompressed header+content.
func (o *Object) ID() hash.Oid {
	return hash.Sum(o.canonicalBytes())
}

func (o *Object) canonicalBytes() []byte {
	buf := new(bytes.Buffer)
	buf.WriteString(o.Type.String())
	buf.WriteByte(' ')
	buf.WriteString(strconv.Itoa(len(o.Content)))
	buf.WriteByte(0)
	buf.Write(o.Content)
	return buf.Bytes()
}

// ComputeID computes the digest of a (type, content) pair without
// constructing an intermediate Object.
func ComputeID(typ Type, content []byte) hash.Oid {
	return New(typ, content).ID()
}

// Serialize returns the object's digest and its DEFLATE-compressed
// canonical bytes (raw deflate, no zlib wrapper).
func Serialize(typ Type, content []byte) (id hash.Oid, compressed []byte, err error) {
	o := New(typ, content)
	canonical := o.canonicalBytes()
	compressed, err = deflate(canonical)
	if err != nil {
		return hash.NullOid, nil, xerrors.Errorf("could not compress object: %w", err)
	}
	return o.ID(), compressed, nil
}

// Deserialize parses a compressed canonical byte stream back into a
// type and content.
func Deserialize(compressed []byte) (typ Type, content []byte, err error) {
	canonical, err := inflate(compressed)
	if err != nil {
		return 0, nil, xerrors.Errorf("could not decompress object: %w", err)
	}

	sep := bytes.IndexByte(canonical, 0)
	if sep < 0 {
		return 0, nil, xerrors.Errorf("no NUL separator in header: %w", ErrMalformedObject)
	}
	header := canonical[:sep]
	content = canonical[sep+1:]

	space := bytes.IndexByte(header, ' ')
	if space < 0 {
		return 0, nil, xerrors.Errorf("header has no space: %w", ErrMalformedObject)
	}

	typ, err = ParseType(string(header[:space]))
	if err != nil {
		return 0, nil, err
	}

	size, err := strconv.Atoi(string(header[space+1:]))
	if err != nil || size < 0 {
		return 0, nil, xerrors.Errorf("size token %q is not a non-negative integer: %w", header[space+1:], ErrMalformedObject)
	}
	if size > len(content) {
		return 0, nil, xerrors.Errorf("declared length %d exceeds available content (%d): %w", size, len(content), ErrMalformedObject)
	}

	return typ, content[:size], nil
}
