package repo

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/magicrepos/magicrepos/index"
	"github.com/magicrepos/magicrepos/objstore"
	"github.com/magicrepos/magicrepos/worktree"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// Stage stages the single working-tree file at relPath (using "/"
// separators). If the file is absent, its index entry is removed
// (idempotently); otherwise it is hashed, stored as a blob, and its
// index entry is upserted with the file's current size and mtime
// (nanoseconds set to 0).
func (r *Repository) Stage(relPath string) error {
	relPath = normalizePath(relPath)
	idx, err := r.loadIndex()
	if err != nil {
		return err
	}

	info, err := r.fs.Stat(r.absWorkPath(relPath))
	if err != nil {
		if isNotExist(err) {
			idx.Remove(relPath)
			return r.saveIndex(idx)
		}
		return xerrors.Errorf("could not stat %s: %w", relPath, err)
	}

	content, err := afero.ReadFile(r.fs, r.absWorkPath(relPath))
	if err != nil {
		return xerrors.Errorf("could not read %s: %w", relPath, err)
	}

	id, err := r.Objects.Put(objstore.TypeBlob, content)
	if err != nil {
		return xerrors.Errorf("could not store blob for %s: %w", relPath, err)
	}

	idx.Put(index.Entry{
		MtimeS: uint64(info.ModTime().Unix()),
		Size:   uint32(info.Size()),
		Digest: id,
		Path:   relPath,
	})
	return r.saveIndex(idx)
}

// StageAll enumerates the working tree, produces/updates index
// entries for every present file, and removes entries whose paths no
// longer exist.
func (r *Repository) StageAll() error {
	scanner := worktree.New(r.fs, r.workTree, r.ignore)
	files, err := scanner.ListFiles()
	if err != nil {
		return xerrors.Errorf("could not scan working tree: %w", err)
	}

	idx, err := r.loadIndex()
	if err != nil {
		return err
	}

	present := make(map[string]bool, len(files))
	for _, relPath := range files {
		present[relPath] = true

		content, err := afero.ReadFile(r.fs, r.absWorkPath(relPath))
		if err != nil {
			return xerrors.Errorf("could not read %s: %w", relPath, err)
		}
		info, err := r.fs.Stat(r.absWorkPath(relPath))
		if err != nil {
			return xerrors.Errorf("could not stat %s: %w", relPath, err)
		}

		id, err := r.Objects.Put(objstore.TypeBlob, content)
		if err != nil {
			return xerrors.Errorf("could not store blob for %s: %w", relPath, err)
		}

		idx.Put(index.Entry{
			MtimeS: uint64(info.ModTime().Unix()),
			Size:   uint32(info.Size()),
			Digest: id,
			Path:   relPath,
		})
	}

	for _, e := range idx.Entries() {
		if !present[e.Path] {
			idx.Remove(e.Path)
		}
	}

	return r.saveIndex(idx)
}

// normalizePath rewrites OS-native separators to "/" before storage.
func normalizePath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
