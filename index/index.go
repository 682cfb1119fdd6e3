// Package index implements the binary staging file: a sorted,
// checksum-protected snapshot of the next commit's tree.
package index

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"sort"

	"github.com/magicrepos/magicrepos/hash"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// ErrCorrupt is returned when a persisted index fails to load: wrong
// magic, unsupported version, truncation, or checksum mismatch.
var ErrCorrupt = errors.New("corrupt index")

// magic is the 4-byte file signature.
const magic = "MRIX"

// version is the only supported on-disk version.
const version uint32 = 1

// checksumSize is the length of the trailing SHA-256 footer.
const checksumSize = sha256.Size

// entryFixedSize is the length, in bytes, of an entry before its
// variable-length path and zero padding.
const entryFixedSize = 8 + 4 + 4 + hash.Size + 2 // mtime_s + mtime_ns + size + digest + flags

// Entry is one staged file.
type Entry struct {
	MtimeS  uint64
	MtimeNs uint32
	Size    uint32
	Digest  hash.Oid
	Flags   uint16
	Path    string
}

// Index is the in-memory staging area: entries sorted, ordinal, and
// unique by path.
type Index struct {
	entries []Entry
}

// New returns an empty Index.
func New() *Index {
	return &Index{}
}

// Entries returns the entries in ascending ordinal path order.
func (idx *Index) Entries() []Entry {
	out := make([]Entry, len(idx.entries))
	copy(out, idx.entries)
	return out
}

// Get returns the entry for path, if present.
func (idx *Index) Get(path string) (Entry, bool) {
	i := idx.search(path)
	if i < len(idx.entries) && idx.entries[i].Path == path {
		return idx.entries[i], true
	}
	return Entry{}, false
}

func (idx *Index) search(path string) int {
	return sort.Search(len(idx.entries), func(i int) bool {
		return idx.entries[i].Path >= path
	})
}

// Put inserts e, replacing any existing entry with the same path, or
// else inserting it while preserving ascending ordinal order.
func (idx *Index) Put(e Entry) {
	e.Flags = flagsFor(e.Path)
	i := idx.search(e.Path)
	if i < len(idx.entries) && idx.entries[i].Path == e.Path {
		idx.entries[i] = e
		return
	}
	idx.entries = append(idx.entries, Entry{})
	copy(idx.entries[i+1:], idx.entries[i:])
	idx.entries[i] = e
}

// Remove deletes the entry for path, if present.
func (idx *Index) Remove(path string) {
	i := idx.search(path)
	if i < len(idx.entries) && idx.entries[i].Path == path {
		idx.entries = append(idx.entries[:i], idx.entries[i+1:]...)
	}
}

// Len returns the number of entries.
func (idx *Index) Len() int {
	return len(idx.entries)
}

func flagsFor(path string) uint16 {
	if len(path) > 0xFFF {
		return 0xFFF
	}
	return uint16(len(path))
}

// Encode serializes idx into the on-disk MRIX format.
func Encode(idx *Index) []byte {
	buf := new(bytes.Buffer)
	buf.WriteString(magic)

	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:4], version)
	binary.BigEndian.PutUint32(hdr[4:8], uint32(len(idx.entries)))
	buf.Write(hdr[:])

	for _, e := range idx.entries {
		encodeEntry(buf, e)
	}

	sum := sha256.Sum256(buf.Bytes())
	buf.Write(sum[:])
	return buf.Bytes()
}

func encodeEntry(buf *bytes.Buffer, e Entry) {
	start := buf.Len()

	var fixed [entryFixedSize]byte
	binary.BigEndian.PutUint64(fixed[0:8], e.MtimeS)
	binary.BigEndian.PutUint32(fixed[8:12], e.MtimeNs)
	binary.BigEndian.PutUint32(fixed[12:16], e.Size)
	copy(fixed[16:16+hash.Size], e.Digest.Bytes())
	binary.BigEndian.PutUint16(fixed[16+hash.Size:], e.Flags)
	buf.Write(fixed[:])
	buf.WriteString(e.Path)
	buf.WriteByte(0)

	written := buf.Len() - start
	if pad := (8 - written%8) % 8; pad > 0 {
		buf.Write(make([]byte, pad))
	}
}

// Decode parses the MRIX format, validating the magic, version,
// length, and trailing checksum.
func Decode(b []byte) (*Index, error) {
	if len(b) < len(magic)+8+checksumSize {
		return nil, xerrors.Errorf("truncated index: %w", ErrCorrupt)
	}
	if string(b[:len(magic)]) != magic {
		return nil, xerrors.Errorf("bad magic: %w", ErrCorrupt)
	}

	footer := b[len(b)-checksumSize:]
	body := b[:len(b)-checksumSize]
	sum := sha256.Sum256(body)
	if !bytes.Equal(sum[:], footer) {
		return nil, xerrors.Errorf("checksum mismatch: %w", ErrCorrupt)
	}

	off := len(magic)
	v := binary.BigEndian.Uint32(body[off : off+4])
	off += 4
	if v != version {
		return nil, xerrors.Errorf("unsupported version %d: %w", v, ErrCorrupt)
	}
	count := binary.BigEndian.Uint32(body[off : off+4])
	off += 4

	idx := &Index{entries: make([]Entry, 0, count)}
	for i := uint32(0); i < count; i++ {
		e, next, err := decodeEntry(body, off)
		if err != nil {
			return nil, xerrors.Errorf("entry %d: %w", i, err)
		}
		idx.entries = append(idx.entries, e)
		off = next
	}
	if off != len(body) {
		return nil, xerrors.Errorf("trailing garbage after entries: %w", ErrCorrupt)
	}
	return idx, nil
}

func decodeEntry(body []byte, off int) (Entry, int, error) {
	if off+entryFixedSize > len(body) {
		return Entry{}, 0, xerrors.Errorf("truncated entry: %w", ErrCorrupt)
	}
	var e Entry
	e.MtimeS = binary.BigEndian.Uint64(body[off : off+8])
	e.MtimeNs = binary.BigEndian.Uint32(body[off+8 : off+12])
	e.Size = binary.BigEndian.Uint32(body[off+12 : off+16])
	digest, err := hash.FromBytes(body[off+16 : off+16+hash.Size])
	if err != nil {
		return Entry{}, 0, xerrors.Errorf("bad digest: %w", ErrCorrupt)
	}
	e.Digest = digest
	flagsOff := off + 16 + hash.Size
	// Flags carries min(len(path), 0xFFF) as written, but per the
	// format's contract it is not semantically inspected on read: the
	// path is delimited by its NUL terminator instead.
	e.Flags = binary.BigEndian.Uint16(body[flagsOff : flagsOff+2])

	pathStart := flagsOff + 2
	nul := bytes.IndexByte(body[pathStart:], 0)
	if nul < 0 {
		return Entry{}, 0, xerrors.Errorf("unterminated path: %w", ErrCorrupt)
	}
	e.Path = string(body[pathStart : pathStart+nul])

	written := (pathStart + nul + 1) - off
	padded := written + (8-written%8)%8
	next := off + padded
	if next > len(body) {
		return Entry{}, 0, xerrors.Errorf("truncated padding: %w", ErrCorrupt)
	}
	return e, next, nil
}

// Load reads and decodes the index file at path. A missing file is
// treated as an empty index, per the lifecycle rule that the index is
// created on first stage.
func Load(fsys afero.Fs, path string) (*Index, error) {
	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return nil, xerrors.Errorf("could not stat index: %w", err)
	}
	if !exists {
		return New(), nil
	}

	b, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, xerrors.Errorf("could not read index: %w", err)
	}
	return Decode(b)
}

// Save writes idx to path in full, as a single overwrite.
func Save(fsys afero.Fs, path string, idx *Index) error {
	if err := afero.WriteFile(fsys, path, Encode(idx), 0o644); err != nil {
		return xerrors.Errorf("could not write index: %w", err)
	}
	return nil
}
