// Package server implements the server side of the framed session
// protocol: resolving {owner}/{repo} to a bare repository and running
// the push/pull/pr state machine of spec.md §4.9 over any
// io.ReadWriteCloser.
package server

import (
	"path"

	"github.com/magicrepos/magicrepos/internal/gitpath"
	"github.com/magicrepos/magicrepos/repo"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// BareRepoStore resolves "{owner}/{repo}" namespaces to bare
// repositories rooted under a single filesystem root.
type BareRepoStore struct {
	fs   afero.Fs
	root string
}

// NewBareRepoStore returns a store rooted at root.
func NewBareRepoStore(fsys afero.Fs, root string) *BareRepoStore {
	return &BareRepoStore{fs: fsys, root: root}
}

func (s *BareRepoStore) controlDir(owner, repoName string) string {
	return path.Join(s.root, owner, repoName+gitpath.BareSuffix)
}

// Exists reports whether owner/repo has already been created.
func (s *BareRepoStore) Exists(owner, repoName string) bool {
	exists, _ := afero.DirExists(s.fs, s.controlDir(owner, repoName))
	return exists
}

// Open opens an existing bare repository.
func (s *BareRepoStore) Open(owner, repoName string) (*repo.Repository, error) {
	r, err := repo.OpenBare(s.fs, s.controlDir(owner, repoName))
	if err != nil {
		return nil, xerrors.Errorf("could not open %s/%s: %w", owner, repoName, err)
	}
	return r, nil
}

// Create initializes a new bare repository at owner/repo.
func (s *BareRepoStore) Create(owner, repoName string) (*repo.Repository, error) {
	r, err := repo.InitBare(s.fs, s.controlDir(owner, repoName))
	if err != nil {
		return nil, xerrors.Errorf("could not create %s/%s: %w", owner, repoName, err)
	}
	return r, nil
}

// OpenOrCreate opens owner/repo if it exists, else creates it.
func (s *BareRepoStore) OpenOrCreate(owner, repoName string) (*repo.Repository, error) {
	if s.Exists(owner, repoName) {
		return s.Open(owner, repoName)
	}
	return s.Create(owner, repoName)
}
