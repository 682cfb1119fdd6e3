// Package repo implements the repository facade: stage, commit,
// status, log, diff, branch, checkout, reset, and the tree
// builder/reader that ties the object store, index, and ref store
// together around a working directory.
package repo

import (
	"path"
	"path/filepath"

	"github.com/magicrepos/magicrepos/index"
	"github.com/magicrepos/magicrepos/internal/pathutil"
	"github.com/magicrepos/magicrepos/objstore"
	"github.com/magicrepos/magicrepos/refs"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// ConfigOracle supplies commit authorship fallbacks.
type ConfigOracle interface {
	UserName() (string, bool)
	UserEmail() (string, bool)
}

// IgnoreOracle answers whether a working-tree path is ignored.
type IgnoreOracle interface {
	Ignored(relPath string, isDir bool) bool
}

// Repository is the facade over one working copy (or one bare
// repository, when WorkTree is empty).
type Repository struct {
	fs       afero.Fs
	workTree string // "" for a bare repository
	control  string

	Objects *objstore.Store
	Refs    *refs.Store

	config ConfigOracle
	ignore IgnoreOracle
}

// indexPath returns the absolute path of the staging index file.
func (r *Repository) indexPath() string {
	return path.Join(r.control, "index")
}

// Init creates a new repository's control directory at control,
// rooted at workTree (pass "" for a bare repository). It fails with
// ErrAlreadyExists if the control directory is already present.
func Init(fsys afero.Fs, workTree, control string) (*Repository, error) {
	if exists, _ := afero.DirExists(fsys, control); exists {
		return nil, xerrors.Errorf("%s: %w", control, ErrAlreadyExists)
	}

	if err := fsys.MkdirAll(control, 0o755); err != nil {
		return nil, xerrors.Errorf("could not create control directory: %w", err)
	}

	r := &Repository{
		fs:       fsys,
		workTree: workTree,
		control:  control,
		Objects:  objstore.New(fsys, control),
		Refs:     refs.New(fsys, control),
	}

	if err := fsys.MkdirAll(path.Join(control, "objects"), 0o755); err != nil {
		return nil, xerrors.Errorf("could not create objects directory: %w", err)
	}

	if err := r.Refs.Init(); err != nil {
		return nil, xerrors.Errorf("could not initialize refs: %w", err)
	}

	if err := afero.WriteFile(fsys, r.controlSubpath("config"), []byte{}, 0o644); err != nil {
		return nil, xerrors.Errorf("could not write default config: %w", err)
	}

	return r, nil
}

// Open walks parent directories from start looking for a
// ".magicrepos" control directory, failing with ErrNotARepository if
// the filesystem root is reached.
func Open(fsys afero.Fs, start string) (*Repository, error) {
	workTree, control, err := pathutil.DiscoverControlDir(fsys, start)
	if err != nil {
		return nil, xerrors.Errorf("%s: %w", start, ErrNotARepository)
	}
	return &Repository{
		fs:       fsys,
		workTree: workTree,
		control:  control,
		Objects:  objstore.New(fsys, control),
		Refs:     refs.New(fsys, control),
	}, nil
}

// OpenBare opens a server-side repository with no working tree: the
// control directory itself is the repository root.
func OpenBare(fsys afero.Fs, control string) (*Repository, error) {
	exists, _ := afero.DirExists(fsys, control)
	if !exists {
		return nil, xerrors.Errorf("%s: %w", control, ErrNotARepository)
	}
	return &Repository{
		fs:      fsys,
		control: control,
		Objects: objstore.New(fsys, control),
		Refs:    refs.New(fsys, control),
	}, nil
}

// InitBare creates a new bare repository at control.
func InitBare(fsys afero.Fs, control string) (*Repository, error) {
	return Init(fsys, "", control)
}

// SetConfig attaches the config oracle used to resolve commit
// authorship fallbacks.
func (r *Repository) SetConfig(c ConfigOracle) {
	r.config = c
}

// SetIgnore attaches the ignore oracle used by the working-tree
// scanner.
func (r *Repository) SetIgnore(i IgnoreOracle) {
	r.ignore = i
}

// WorkTree returns the working directory root, or "" for a bare
// repository.
func (r *Repository) WorkTree() string {
	return r.workTree
}

// Control returns the control directory's absolute path.
func (r *Repository) Control() string {
	return r.control
}

// IsBare returns whether the repository has no working tree.
func (r *Repository) IsBare() bool {
	return r.workTree == ""
}

func (r *Repository) absWorkPath(relPath string) string {
	return filepath.Join(r.workTree, filepath.FromSlash(relPath))
}

// loadIndex reads the current staging index.
func (r *Repository) loadIndex() (*index.Index, error) {
	return index.Load(r.fs, r.indexPath())
}

// saveIndex persists idx as the current staging index.
func (r *Repository) saveIndex(idx *index.Index) error {
	return index.Save(r.fs, r.indexPath(), idx)
}

// controlSubpath joins name under the control directory; Init uses it
// to place the empty "config" file.
func (r *Repository) controlSubpath(name string) string {
	return path.Join(r.control, name)
}
