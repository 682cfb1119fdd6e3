package repo

import (
	"path/filepath"

	"github.com/magicrepos/magicrepos/hash"
	"github.com/magicrepos/magicrepos/index"
	"github.com/magicrepos/magicrepos/objstore"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// CheckoutBranch resolves name's commit, replaces the working tree
// with its flattened contents, rebuilds the index from what was
// written, and points HEAD at refs/heads/{name}.
func (r *Repository) CheckoutBranch(name string) error {
	id, err := r.Refs.ResolveBranch(name)
	if err != nil {
		return xerrors.Errorf("could not resolve branch %s: %w", name, err)
	}

	c, err := r.GetCommit(id)
	if err != nil {
		return err
	}
	files, err := r.ReadTreeRecursive(c.TreeID)
	if err != nil {
		return err
	}

	idx, err := r.loadIndex()
	if err != nil {
		return err
	}
	for _, e := range idx.Entries() {
		if err := r.removeWorkFile(e.Path); err != nil {
			return err
		}
	}

	newIdx := index.New()
	for _, f := range files {
		entry, err := r.writeWorkFile(f.Path, f.ID)
		if err != nil {
			return err
		}
		newIdx.Put(entry)
	}
	if err := r.saveIndex(newIdx); err != nil {
		return err
	}

	return r.Refs.WriteHead("ref: refs/heads/" + name)
}

// writeWorkFile materializes blob id's content at relPath under the
// working tree (creating parent directories as needed) and returns
// the index entry reflecting its post-write size and mtime.
func (r *Repository) writeWorkFile(relPath string, id hash.Oid) (index.Entry, error) {
	typ, content, err := r.Objects.Read(id)
	if err != nil {
		return index.Entry{}, xerrors.Errorf("could not read blob %s: %w", id, err)
	}
	if typ != objstore.TypeBlob {
		return index.Entry{}, xerrors.Errorf("object %s is not a blob", id)
	}

	abs := r.absWorkPath(relPath)
	if err := r.fs.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return index.Entry{}, xerrors.Errorf("could not create directory for %s: %w", relPath, err)
	}
	if err := afero.WriteFile(r.fs, abs, content, 0o644); err != nil {
		return index.Entry{}, xerrors.Errorf("could not write %s: %w", relPath, err)
	}

	info, err := r.fs.Stat(abs)
	if err != nil {
		return index.Entry{}, xerrors.Errorf("could not stat %s: %w", relPath, err)
	}
	return index.Entry{
		MtimeS: uint64(info.ModTime().Unix()),
		Size:   uint32(len(content)),
		Digest: id,
		Path:   relPath,
	}, nil
}

// removeWorkFile deletes relPath from the working tree (if present)
// and prunes any now-empty parent directories up to the working root.
func (r *Repository) removeWorkFile(relPath string) error {
	abs := r.absWorkPath(relPath)
	if err := r.fs.Remove(abs); err != nil && !isNotExist(err) {
		return xerrors.Errorf("could not remove %s: %w", relPath, err)
	}

	dir := filepath.Dir(abs)
	for dir != r.workTree && dir != filepath.Dir(dir) {
		entries, err := afero.ReadDir(r.fs, dir)
		if err != nil || len(entries) > 0 {
			break
		}
		if err := r.fs.Remove(dir); err != nil {
			break
		}
		dir = filepath.Dir(dir)
	}
	return nil
}
