// Package worktree scans a working-directory tree into a sorted list
// of relative paths, honoring an external ignore oracle.
package worktree

import (
	"path"
	"sort"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// IgnoreOracle answers whether a path should be excluded from the
// scan. The control directory and anything under it must always be
// reported as ignored by the oracle's own contract; the scanner does
// not special-case it.
type IgnoreOracle interface {
	Ignored(relPath string, isDir bool) bool
}

// Scanner walks a working tree in deterministic order.
type Scanner struct {
	fs     afero.Fs
	root   string
	ignore IgnoreOracle
}

// New returns a Scanner rooted at root.
func New(fsys afero.Fs, root string, ignore IgnoreOracle) *Scanner {
	return &Scanner{fs: fsys, root: root, ignore: ignore}
}

// ListFiles returns every non-ignored, non-directory path under root,
// relative to root, using "/" separators, in sorted order. Symbolic
// links are not followed. An ignored directory prunes its whole
// subtree.
func (s *Scanner) ListFiles() ([]string, error) {
	var out []string
	if err := s.walk("", &out); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

func (s *Scanner) walk(relDir string, out *[]string) error {
	absDir := path.Join(s.root, relDir)
	entries, err := afero.ReadDir(s.fs, absDir)
	if err != nil {
		return xerrors.Errorf("could not list %s: %w", absDir, err)
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	sort.Strings(names)

	byName := make(map[string]bool, len(entries))
	for _, e := range entries {
		byName[e.Name()] = e.IsDir()
	}

	for _, name := range names {
		isDir := byName[name]
		rel := name
		if relDir != "" {
			rel = relDir + "/" + name
		}

		if s.ignore.Ignored(rel, isDir) {
			continue
		}

		if isDir {
			if err := s.walk(rel, out); err != nil {
				return err
			}
			continue
		}

		*out = append(*out, rel)
	}
	return nil
}
