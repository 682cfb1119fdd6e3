package objstore

import (
	"bytes"
	"errors"
	"sort"
	"strconv"

	"github.com/magicrepos/magicrepos/hash"
	"golang.org/x/xerrors"
)

// ErrTreeInvalid is returned when a tree object's content cannot be
// parsed.
var ErrTreeInvalid = errors.New("invalid tree")

// Mode is a tree entry's file mode. Only the four modes below are
// legal; there is no gitlink/submodule mode.
type Mode int32

// Legal tree entry modes.
const (
	ModeFile       Mode = 0o100644
	ModeExecutable Mode = 0o100755
	ModeDirectory  Mode = 0o40000
	ModeSymlink    Mode = 0o120000
)

// IsValid returns whether m is one of the four legal modes.
func (m Mode) IsValid() bool {
	switch m {
	case ModeFile, ModeExecutable, ModeDirectory, ModeSymlink:
		return true
	default:
		return false
	}
}

// TreeEntry is one row of a tree object.
type TreeEntry struct {
	Name string
	Mode Mode
	ID   hash.Oid
}

// Tree is a typed view over a tree Object: an ordinal-sorted list of
// entries.
type Tree struct {
	entries []TreeEntry
}

// NewTree returns a Tree from entries, sorting them by name in
// ordinal order. entries is not mutated.
func NewTree(entries []TreeEntry) *Tree {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Tree{entries: sorted}
}

// Entries returns a copy of the tree's entries, in ordinal order.
func (t *Tree) Entries() []TreeEntry {
	out := make([]TreeEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// TreeFromObject parses o's content into a Tree.
//
// Each entry has the form "{octal_mode} {name}\0{32-byte digest}",
// entries packed back to back.
func TreeFromObject(o *Object) (*Tree, error) {
	entries := []TreeEntry{}
	data := o.Content
	offset := 0
	for offset < len(data) {
		sp := bytes.IndexByte(data[offset:], ' ')
		if sp < 0 {
			return nil, xerrors.Errorf("could not find mode separator: %w", ErrTreeInvalid)
		}
		modeStr := data[offset : offset+sp]
		offset += sp + 1

		mode, err := strconv.ParseInt(string(modeStr), 8, 32)
		if err != nil {
			return nil, xerrors.Errorf("invalid mode %q: %w", modeStr, ErrTreeInvalid)
		}

		nul := bytes.IndexByte(data[offset:], 0)
		if nul < 0 {
			return nil, xerrors.Errorf("could not find name terminator: %w", ErrTreeInvalid)
		}
		name := string(data[offset : offset+nul])
		offset += nul + 1

		if offset+hash.Size > len(data) {
			return nil, xerrors.Errorf("not enough bytes for entry digest: %w", ErrTreeInvalid)
		}
		id, err := hash.FromBytes(data[offset : offset+hash.Size])
		if err != nil {
			return nil, xerrors.Errorf("invalid entry digest: %w", ErrTreeInvalid)
		}
		offset += hash.Size

		entries = append(entries, TreeEntry{Name: name, Mode: Mode(mode), ID: id})
	}
	return &Tree{entries: entries}, nil
}

// ToObject serializes the tree's entries into an Object.
func (t *Tree) ToObject() *Object {
	buf := new(bytes.Buffer)
	for _, e := range t.entries {
		buf.WriteString(strconv.FormatInt(int64(e.Mode), 8))
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(e.ID.Bytes())
	}
	return New(TypeTree, buf.Bytes())
}
