package repo

import (
	"github.com/magicrepos/magicrepos/diff"
	"github.com/magicrepos/magicrepos/hash"
	"github.com/magicrepos/magicrepos/objstore"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// blobText reads the blob at id as text, or "" if id is the NullOid
// (used to diff against a side that has no content).
func (r *Repository) blobText(id hash.Oid) (string, error) {
	if id.IsZero() {
		return "", nil
	}
	typ, content, err := r.Objects.Read(id)
	if err != nil {
		return "", xerrors.Errorf("could not read blob %s: %w", id, err)
	}
	if typ != objstore.TypeBlob {
		return "", xerrors.Errorf("object %s is not a blob", id)
	}
	return string(content), nil
}

// DiffStaged diffs relPath between HEAD's tree and the index: what
// `git diff --staged` would show for that one file.
func (r *Repository) DiffStaged(relPath string) (diff.Result, error) {
	head, err := r.headBlobs()
	if err != nil {
		return diff.Result{}, err
	}
	idx, err := r.loadIndex()
	if err != nil {
		return diff.Result{}, err
	}

	oldText, err := r.blobText(head[relPath])
	if err != nil {
		return diff.Result{}, err
	}
	var newID hash.Oid
	if e, ok := idx.Get(relPath); ok {
		newID = e.Digest
	}
	newText, err := r.blobText(newID)
	if err != nil {
		return diff.Result{}, err
	}
	return diff.Diff(oldText, newText), nil
}

// DiffWorktree diffs relPath between the index and the working tree:
// what `git diff` would show for that one file.
func (r *Repository) DiffWorktree(relPath string) (diff.Result, error) {
	idx, err := r.loadIndex()
	if err != nil {
		return diff.Result{}, err
	}
	var oldID hash.Oid
	if e, ok := idx.Get(relPath); ok {
		oldID = e.Digest
	}
	oldText, err := r.blobText(oldID)
	if err != nil {
		return diff.Result{}, err
	}

	content, err := afero.ReadFile(r.fs, r.absWorkPath(relPath))
	if err != nil {
		if isNotExist(err) {
			return diff.Diff(oldText, ""), nil
		}
		return diff.Result{}, xerrors.Errorf("could not read %s: %w", relPath, err)
	}
	return diff.Diff(oldText, string(content)), nil
}
