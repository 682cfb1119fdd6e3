package objstore

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/gogf/gf/encoding/ghash"
	"github.com/golang/groupcache/lru"
	"github.com/magicrepos/magicrepos/hash"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// ErrNotFound is returned when a requested object does not exist in
// the store.
var ErrNotFound = errors.New("object not found")

// decodedObjectCacheSize bounds the in-process decoded-object LRU.
const decodedObjectCacheSize = 256

// objectLockShards is the width of the per-object write-lock array.
// Object ids are themselves uniform hash output, so sharding on a
// hash of the id spreads writers evenly without needing one mutex per
// object on disk.
const objectLockShards = 64

// decodedObjectCache is a mutex-guarded LRU of already-parsed objects,
// keyed directly by their id, sparing repeat callers (status, diff,
// the reachability walker) a decompress+parse round trip.
type decodedObjectCache struct {
	mu  sync.Mutex
	lru *lru.Cache
}

func newDecodedObjectCache(maxEntries int) *decodedObjectCache {
	return &decodedObjectCache{lru: lru.New(maxEntries)}
}

func (c *decodedObjectCache) get(id hash.Oid) (cachedObject, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.lru.Get(id)
	if !ok {
		return cachedObject{}, false
	}
	return v.(cachedObject), true
}

func (c *decodedObjectCache) add(id hash.Oid, obj cachedObject) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(id, obj)
}

// objectLocks serializes concurrent Write calls for the same object
// id across a fixed shard array, rather than locking the whole store.
type objectLocks struct {
	shards [objectLockShards]sync.Mutex
}

func (l *objectLocks) forID(id hash.Oid) *sync.Mutex {
	b := id.Bytes()
	return &l.shards[ghash.SDBMHash(b)%objectLockShards]
}

// Store is the on-disk loose-object store: content-addressed,
// DEFLATE-compressed files laid out at objects/{prefix}/{suffix}.
type Store struct {
	fs   afero.Fs
	root string

	cache    *decodedObjectCache
	objectMu *objectLocks
}

// New returns a Store rooted at root/objects, using fsys for all
// filesystem access.
func New(fsys afero.Fs, root string) *Store {
	return &Store{
		fs:       fsys,
		root:     filepath.Join(root, "objects"),
		cache:    newDecodedObjectCache(decodedObjectCacheSize),
		objectMu: &objectLocks{},
	}
}

func (s *Store) path(id hash.Oid) string {
	return filepath.Join(s.root, id.Prefix(), id.Suffix())
}

// Exists returns whether id is present in the store.
func (s *Store) Exists(id hash.Oid) bool {
	_, err := s.fs.Stat(s.path(id))
	return err == nil
}

// Read returns the parsed (type, content) for id, transparently
// decompressing and validating the canonical header.
func (s *Store) Read(id hash.Oid) (typ Type, content []byte, err error) {
	if entry, ok := s.cache.get(id); ok {
		return entry.typ, entry.content, nil
	}

	compressed, err := s.ReadCompressed(id)
	if err != nil {
		return 0, nil, err
	}

	typ, content, err = Deserialize(compressed)
	if err != nil {
		return 0, nil, xerrors.Errorf("object %s: %w", id, err)
	}

	s.cache.add(id, cachedObject{typ: typ, content: content})
	return typ, content, nil
}

type cachedObject struct {
	typ     Type
	content []byte
}

// ReadCompressed returns the raw compressed bytes stored for id,
// without decoding them.
func (s *Store) ReadCompressed(id hash.Oid) ([]byte, error) {
	b, err := afero.ReadFile(s.fs, s.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, xerrors.Errorf("%s: %w", id, ErrNotFound)
		}
		return nil, xerrors.Errorf("could not read object %s: %w", id, err)
	}
	return b, nil
}

// Write stores the compressed bytes for id. It is idempotent: if the
// destination already exists the call is a no-op and does not verify
// content, since content addressing guarantees same key implies same
// bytes.
func (s *Store) Write(id hash.Oid, compressed []byte) error {
	mu := s.objectMu.forID(id)
	mu.Lock()
	defer mu.Unlock()

	if s.Exists(id) {
		return nil
	}

	dir := filepath.Join(s.root, id.Prefix())
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return xerrors.Errorf("could not create object directory %s: %w", dir, err)
	}

	tmp := s.path(id) + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, compressed, 0o444); err != nil {
		return xerrors.Errorf("could not write object %s: %w", id, err)
	}
	if err := s.fs.Rename(tmp, s.path(id)); err != nil {
		return xerrors.Errorf("could not finalize object %s: %w", id, err)
	}
	return nil
}

// Put serializes and stores (typ, content), returning its id.
func (s *Store) Put(typ Type, content []byte) (hash.Oid, error) {
	id, compressed, err := Serialize(typ, content)
	if err != nil {
		return hash.NullOid, err
	}
	if err := s.Write(id, compressed); err != nil {
		return hash.NullOid, err
	}
	return id, nil
}

// WalkFunc is called once per object id present in the store.
type WalkFunc func(id hash.Oid) error

// WalkStop is a sentinel a WalkFunc may return to end a Walk early
// without propagating an error.
var WalkStop = errors.New("stop walk") //nolint:errname // sentinel, not formatted like other errors

// Walk visits every loose object id, in unspecified order.
func (s *Store) Walk(fn WalkFunc) error {
	entries, err := afero.ReadDir(s.fs, s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return xerrors.Errorf("could not list object directories: %w", err)
	}

	for _, prefixEntry := range entries {
		if !prefixEntry.IsDir() || len(prefixEntry.Name()) != 2 {
			continue
		}
		prefix := prefixEntry.Name()
		suffixes, err := afero.ReadDir(s.fs, filepath.Join(s.root, prefix))
		if err != nil {
			return xerrors.Errorf("could not list objects under %s: %w", prefix, err)
		}
		for _, suffixEntry := range suffixes {
			if suffixEntry.IsDir() {
				continue
			}
			id, err := hash.FromHex(prefix + suffixEntry.Name())
			if err != nil {
				continue
			}
			if err := fn(id); err != nil {
				if errors.Is(err, WalkStop) {
					return nil
				}
				return err
			}
		}
	}
	return nil
}
