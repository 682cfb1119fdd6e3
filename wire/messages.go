package wire

import (
	"bytes"
	"sort"
	"strings"

	"github.com/magicrepos/magicrepos/hash"
	"golang.org/x/xerrors"
)

// Op names the three session kinds a NegotiateRequest can open.
type Op string

// Session ops.
const (
	OpPush Op = "push"
	OpPull Op = "pull"
	OpPr   Op = "pr"
)

// NegotiateRequest is the first message of every session.
type NegotiateRequest struct {
	Op    Op
	Owner string
	Repo  string
}

// EncodeNegotiateRequest renders "{op}\0{owner}\0{repo}".
func EncodeNegotiateRequest(n NegotiateRequest) []byte {
	return []byte(string(n.Op) + "\x00" + n.Owner + "\x00" + n.Repo)
}

// DecodeNegotiateRequest parses a NegotiateRequest payload, failing
// with ErrProtocolViolation if fewer than three NUL-separated fields
// are present.
func DecodeNegotiateRequest(payload []byte) (NegotiateRequest, error) {
	parts := bytes.SplitN(payload, []byte{0}, 3)
	if len(parts) != 3 {
		return NegotiateRequest{}, xerrors.Errorf("expected 3 NUL-separated fields, got %d: %w", len(parts), ErrProtocolViolation)
	}
	return NegotiateRequest{Op: Op(parts[0]), Owner: string(parts[1]), Repo: string(parts[2])}, nil
}

// RefAdvertisement is the server's HEAD + branch-tip listing.
type RefAdvertisement struct {
	Refs map[string]hash.Oid // refname -> id, including "HEAD"
}

// EncodeRefAdvertisement renders one "{refname} {hex}\n" line per
// ref, sorted by name for determinism.
func EncodeRefAdvertisement(ad RefAdvertisement) []byte {
	names := make([]string, 0, len(ad.Refs))
	for name := range ad.Refs {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	for _, name := range names {
		buf.WriteString(name)
		buf.WriteByte(' ')
		buf.WriteString(ad.Refs[name].String())
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// DecodeRefAdvertisement parses the line-oriented "{refname} {hex}"
// format. An empty payload yields an empty, non-nil map.
func DecodeRefAdvertisement(payload []byte) (RefAdvertisement, error) {
	ad := RefAdvertisement{Refs: map[string]hash.Oid{}}
	for _, line := range strings.Split(strings.TrimRight(string(payload), "\n"), "\n") {
		if line == "" {
			continue
		}
		sp := strings.LastIndexByte(line, ' ')
		if sp < 0 {
			return RefAdvertisement{}, xerrors.Errorf("malformed advertisement line %q: %w", line, ErrProtocolViolation)
		}
		id, err := hash.FromHex(line[sp+1:])
		if err != nil {
			return RefAdvertisement{}, xerrors.Errorf("malformed advertisement id %q: %w", line[sp+1:], ErrProtocolViolation)
		}
		ad.Refs[line[:sp]] = id
	}
	return ad, nil
}

// RefUpdate carries one updated ref's new id.
type RefUpdate struct {
	RefName string
	ID      hash.Oid
}

// EncodeRefUpdate renders "{refname}\0{hex}".
func EncodeRefUpdate(u RefUpdate) []byte {
	return []byte(u.RefName + "\x00" + u.ID.String())
}

// DecodeRefUpdate parses a RefUpdate payload.
func DecodeRefUpdate(payload []byte) (RefUpdate, error) {
	parts := bytes.SplitN(payload, []byte{0}, 2)
	if len(parts) != 2 {
		return RefUpdate{}, xerrors.Errorf("expected 2 NUL-separated fields: %w", ErrProtocolViolation)
	}
	id, err := hash.FromHex(string(parts[1]))
	if err != nil {
		return RefUpdate{}, xerrors.Errorf("malformed ref update id %q: %w", parts[1], ErrProtocolViolation)
	}
	return RefUpdate{RefName: string(parts[0]), ID: id}, nil
}

// EncodeRefWanted renders a newline-joined list of wanted ref names.
// An empty slice encodes to an empty payload (nothing wanted).
func EncodeRefWanted(refNames []string) []byte {
	return []byte(strings.Join(refNames, "\n"))
}

// DecodeRefWanted splits a RefWanted payload back into ref names.
func DecodeRefWanted(payload []byte) []string {
	if len(payload) == 0 {
		return nil
	}
	return strings.Split(string(payload), "\n")
}

// EncodePackData prepends id's 64-byte ASCII hex form to the
// compressed object bytes.
func EncodePackData(id hash.Oid, compressed []byte) []byte {
	out := make([]byte, 0, hash.HexSize+len(compressed))
	out = append(out, []byte(id.String())...)
	out = append(out, compressed...)
	return out
}

// DecodePackData splits a PackData payload back into its id and
// compressed object bytes. It does not verify that the id matches the
// bytes: a faithful reproduction of the reference implementation's
// known weakness (spec §9(a)) — receivers trust the embedded id.
func DecodePackData(payload []byte) (hash.Oid, []byte, error) {
	if len(payload) < hash.HexSize {
		return hash.NullOid, nil, xerrors.Errorf("pack data payload shorter than a hex id: %w", ErrProtocolViolation)
	}
	id, err := hash.FromHex(string(payload[:hash.HexSize]))
	if err != nil {
		return hash.NullOid, nil, xerrors.Errorf("malformed pack data id: %w", ErrProtocolViolation)
	}
	return id, payload[hash.HexSize:], nil
}
