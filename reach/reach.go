// Package reach implements the commit -> tree -> subtree -> blob
// reachability walk that drives the set of objects a push or pull
// must transfer.
package reach

import (
	"bytes"

	"github.com/magicrepos/magicrepos/hash"
	"github.com/magicrepos/magicrepos/objstore"
	"golang.org/x/xerrors"
)

// Store is the subset of objstore.Store the walker needs. An object
// missing from the local store silently terminates that branch of the
// walk, which allows partial clones and first-time pushes.
type Store interface {
	Exists(id hash.Oid) bool
	Read(id hash.Oid) (objstore.Type, []byte, error)
}

// Collect walks the reachability closure of id into set, recursing
// into tree children and commit parents. Ids already present in set
// are not revisited.
func Collect(store Store, id hash.Oid, set map[hash.Oid]bool) error {
	if id.IsZero() || set[id] {
		return nil
	}
	if !store.Exists(id) {
		return nil
	}
	set[id] = true

	typ, content, err := store.Read(id)
	if err != nil {
		return xerrors.Errorf("could not read %s: %w", id, err)
	}

	switch typ {
	case objstore.TypeCommit:
		return collectCommit(store, content, set)
	case objstore.TypeTree:
		return collectTree(store, content, set)
	case objstore.TypeBlob:
		return nil
	default:
		return xerrors.Errorf("object %s has unknown type", id)
	}
}

// collectCommit scans the decoded commit text line-by-line, recursing
// on the tree id and every parent id until the first blank line.
func collectCommit(store Store, content []byte, set map[hash.Oid]bool) error {
	for _, line := range bytes.Split(content, []byte{'\n'}) {
		if len(line) == 0 {
			break
		}
		var idField []byte
		switch {
		case bytes.HasPrefix(line, []byte("tree ")):
			idField = line[len("tree "):]
		case bytes.HasPrefix(line, []byte("parent ")):
			idField = line[len("parent "):]
		default:
			continue
		}
		id, err := hash.FromChars(idField)
		if err != nil {
			return xerrors.Errorf("malformed commit reference %q: %w", idField, err)
		}
		if err := Collect(store, id, set); err != nil {
			return err
		}
	}
	return nil
}

// collectTree scans entries by finding each NUL separator and
// recursing on the following 32-byte id.
func collectTree(store Store, content []byte, set map[hash.Oid]bool) error {
	offset := 0
	for offset < len(content) {
		nul := bytes.IndexByte(content[offset:], 0)
		if nul < 0 {
			return xerrors.Errorf("malformed tree entry: no NUL terminator")
		}
		offset += nul + 1
		if offset+hash.Size > len(content) {
			return xerrors.Errorf("malformed tree entry: truncated digest")
		}
		id, err := hash.FromBytes(content[offset : offset+hash.Size])
		if err != nil {
			return xerrors.Errorf("malformed tree entry digest: %w", err)
		}
		offset += hash.Size
		if err := Collect(store, id, set); err != nil {
			return err
		}
	}
	return nil
}
