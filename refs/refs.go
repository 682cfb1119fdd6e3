// Package refs implements the reference namespace: HEAD (symbolic or
// detached), branches under refs/heads/, and the universal resolver
// that ties ref specs to digests.
package refs

import (
	"bytes"
	"errors"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/magicrepos/magicrepos/hash"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// Head is the name of the HEAD pseudo-ref.
const Head = "HEAD"

// HeadsPrefix is the directory branches live under.
const HeadsPrefix = "refs/heads/"

var (
	// ErrNotFound is returned when a ref or its resolution target does
	// not exist.
	ErrNotFound = errors.New("reference not found")
	// ErrExists is returned by create operations when the target
	// already exists.
	ErrExists = errors.New("reference already exists")
	// ErrMalformed is returned when a ref's content (bad hex, unreadable
	// symbolic target, invalid name) cannot be interpreted.
	ErrMalformed = errors.New("malformed reference")
)

// Store is the reference namespace rooted at a control directory.
type Store struct {
	fs   afero.Fs
	root string
}

// New returns a Store rooted at root (the control directory:
// .magicrepos or {owner}/{repo}.mr).
func New(fsys afero.Fs, root string) *Store {
	return &Store{fs: fsys, root: root}
}

func (s *Store) headPath() string {
	return path.Join(s.root, Head)
}

func (s *Store) refPath(name string) string {
	return path.Join(s.root, name)
}

// IsValidName reports whether name is a legal ref path: no empty
// segments, no trailing slash or dot, none of the reserved characters
// `*?!^ [\:`, no control characters, no "@{" or ".." substrings, and
// no segment starting with "." or ending in ".lock".
func IsValidName(name string) bool {
	if name == "" || name == "/" || name[len(name)-1] == '/' || name[len(name)-1] == '.' {
		return false
	}
	for i, c := range name {
		if c < 32 || c == 127 {
			return false
		}
		switch c {
		case '*', '?', '!', '^', ' ', '[', '\\', ':':
			return false
		}
		if i < len(name)-1 && (name[i:i+2] == "@{" || name[i:i+2] == "..") {
			return false
		}
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == "" || seg[0] == '.' || seg[len(seg)-1] == '.' || strings.HasSuffix(seg, ".lock") {
			return false
		}
	}
	return true
}

func (s *Store) readRaw(name string) ([]byte, error) {
	p := s.refPath(name)
	b, err := afero.ReadFile(s.fs, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, xerrors.Errorf("%s: %w", name, ErrNotFound)
		}
		return nil, xerrors.Errorf("could not read ref %s: %w", name, err)
	}
	return bytes.TrimRight(b, "\n"), nil
}

func (s *Store) writeRaw(name string, content []byte) error {
	p := s.refPath(name)
	if err := s.fs.MkdirAll(path.Dir(p), 0o755); err != nil {
		return xerrors.Errorf("could not create ref directory: %w", err)
	}
	if err := afero.WriteFile(s.fs, p, content, 0o644); err != nil {
		return xerrors.Errorf("could not write ref %s: %w", name, err)
	}
	return nil
}

// ReadHead returns the raw trimmed content of HEAD: either
// "ref: refs/heads/x" or a hex digest string.
func (s *Store) ReadHead() (string, error) {
	b, err := s.readRaw(Head)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteHead overwrites HEAD with content plus a trailing newline.
// content is either "ref: {refpath}" or a hex digest.
func (s *Store) WriteHead(content string) error {
	return s.writeRaw(Head, []byte(content+"\n"))
}

// IsDetached returns whether HEAD currently holds a digest rather
// than a symbolic ref.
func (s *Store) IsDetached() (bool, error) {
	content, err := s.ReadHead()
	if err != nil {
		return false, err
	}
	return !strings.HasPrefix(content, "ref: "), nil
}

// CurrentBranchName returns the short branch name HEAD points to, or
// ("", false) if HEAD is detached.
func (s *Store) CurrentBranchName() (string, bool, error) {
	content, err := s.ReadHead()
	if err != nil {
		return "", false, err
	}
	if !strings.HasPrefix(content, "ref: ") {
		return "", false, nil
	}
	target := strings.TrimPrefix(content, "ref: ")
	if !strings.HasPrefix(target, HeadsPrefix) {
		return "", false, nil
	}
	return strings.TrimPrefix(target, HeadsPrefix), true, nil
}

// ResolveHead follows HEAD (symbolic or detached) to a digest.
// Returns (NullOid, false, nil) for an unborn branch.
func (s *Store) ResolveHead() (hash.Oid, bool, error) {
	content, err := s.ReadHead()
	if err != nil {
		return hash.NullOid, false, err
	}
	return s.followContent(content, map[string]bool{})
}

func (s *Store) followContent(content string, visited map[string]bool) (hash.Oid, bool, error) {
	if strings.HasPrefix(content, "ref: ") {
		target := strings.TrimPrefix(content, "ref: ")
		if visited[target] {
			return hash.NullOid, false, xerrors.Errorf("circular symbolic reference: %w", ErrMalformed)
		}
		visited[target] = true

		raw, err := s.readRaw(target)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return hash.NullOid, false, nil // unborn
			}
			return hash.NullOid, false, err
		}
		return s.followContent(string(raw), visited)
	}

	oid, err := hash.FromHex(content)
	if err != nil {
		return hash.NullOid, false, xerrors.Errorf("ref content %q: %w", content, ErrMalformed)
	}
	return oid, true, nil
}

// ReadRef returns the digest a non-HEAD ref path resolves to.
func (s *Store) ReadRef(refpath string) (hash.Oid, error) {
	raw, err := s.readRaw(refpath)
	if err != nil {
		return hash.NullOid, err
	}
	oid, err := hash.FromHex(string(raw))
	if err != nil {
		return hash.NullOid, xerrors.Errorf("ref %s content %q: %w", refpath, raw, ErrMalformed)
	}
	return oid, nil
}

// WriteRef overwrites refpath with id's hex form plus a trailing
// newline, per (I7): writing a ref is always a full-file overwrite.
func (s *Store) WriteRef(refpath string, id hash.Oid) error {
	if !IsValidName(refpath) {
		return xerrors.Errorf("ref name %q: %w", refpath, ErrMalformed)
	}
	return s.writeRaw(refpath, []byte(id.String()+"\n"))
}

// CreateBranch writes refs/heads/{name} to id, failing if it already
// exists.
func (s *Store) CreateBranch(name string, id hash.Oid) error {
	full := HeadsPrefix + name
	if exists, _ := afero.Exists(s.fs, s.refPath(full)); exists {
		return xerrors.Errorf("branch %q: %w", name, ErrExists)
	}
	return s.WriteRef(full, id)
}

// DeleteBranch removes refs/heads/{name}.
func (s *Store) DeleteBranch(name string) error {
	full := HeadsPrefix + name
	exists, _ := afero.Exists(s.fs, s.refPath(full))
	if !exists {
		return xerrors.Errorf("branch %q: %w", name, ErrNotFound)
	}
	return s.fs.Remove(s.refPath(full))
}

// ResolveBranch returns the digest refs/heads/{name} points to.
func (s *Store) ResolveBranch(name string) (hash.Oid, error) {
	return s.ReadRef(HeadsPrefix + name)
}

// ListBranches walks refs/heads/** recursively and returns branch
// short names, sorted ordinally.
func (s *Store) ListBranches() ([]string, error) {
	root := s.refPath(HeadsPrefix)
	names := []string{}

	var walk func(dir, prefix string) error
	walk = func(dir, prefix string) error {
		entries, err := afero.ReadDir(s.fs, dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return xerrors.Errorf("could not list %s: %w", dir, err)
		}
		for _, e := range entries {
			name := prefix + e.Name()
			if e.IsDir() {
				if err := walk(path.Join(dir, e.Name()), name+"/"); err != nil {
					return err
				}
				continue
			}
			names = append(names, name)
		}
		return nil
	}
	if err := walk(root, ""); err != nil {
		return nil, err
	}

	sort.Strings(names)
	return names, nil
}

// Resolve is the universal ref spec resolver. It tries, in order:
// literal "HEAD" (case-insensitive), any path starting with "refs/",
// short branch name, then a 64-char hex literal. The first hit wins;
// there is no partial-hex resolution.
func (s *Store) Resolve(spec string) (hash.Oid, bool, error) {
	if strings.EqualFold(spec, Head) {
		return s.ResolveHead()
	}
	if strings.HasPrefix(spec, "refs/") {
		oid, err := s.ReadRef(spec)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return hash.NullOid, false, nil
			}
			return hash.NullOid, false, err
		}
		return oid, true, nil
	}
	if exists, _ := afero.Exists(s.fs, s.refPath(HeadsPrefix+spec)); exists {
		oid, err := s.ResolveBranch(spec)
		if err != nil {
			return hash.NullOid, false, err
		}
		return oid, true, nil
	}
	if hash.IsHex(spec) {
		oid, err := hash.FromHex(spec)
		if err != nil {
			return hash.NullOid, false, nil
		}
		return oid, true, nil
	}
	return hash.NullOid, false, nil
}

// Init creates refs/heads/, refs/tags/, and refs/remotes/, and writes
// HEAD to the unborn main branch.
func (s *Store) Init() error {
	for _, dir := range []string{"refs/heads", "refs/tags", "refs/remotes"} {
		if err := s.fs.MkdirAll(path.Join(s.root, dir), 0o755); err != nil {
			return xerrors.Errorf("could not create %s: %w", dir, err)
		}
	}
	return s.WriteHead("ref: refs/heads/main")
}
