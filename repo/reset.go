package repo

import (
	"github.com/magicrepos/magicrepos/index"
	"github.com/magicrepos/magicrepos/objstore"
	"golang.org/x/xerrors"
)

// ResetMode selects how much of the working state Reset touches
// beyond HEAD itself.
type ResetMode int

// Reset modes, in increasing order of how much they touch.
const (
	ResetSoft ResetMode = iota
	ResetMixed
	ResetHard
)

// Reset moves HEAD to spec (resolved via the universal ref resolver)
// and, depending on mode, rewrites the index and/or the working tree:
//
//   - Soft: only HEAD moves.
//   - Mixed: the index is rebuilt from the target commit's tree,
//     preserving existing working-tree files and their mtimes where
//     present (absent files get the blob's size and a zero mtime).
//   - Hard: after Mixed, every file named by the prior or the new
//     index is deleted, the target tree is written to the working
//     tree, and the index is rebuilt from what was written.
func (r *Repository) Reset(spec string, mode ResetMode) error {
	target, ok, err := r.Refs.Resolve(spec)
	if err != nil {
		return xerrors.Errorf("could not resolve %s: %w", spec, err)
	}
	if !ok {
		return xerrors.Errorf("%s: %w", spec, ErrNotFound)
	}

	branch, onBranch, err := r.Refs.CurrentBranchName()
	if err != nil {
		return xerrors.Errorf("could not read HEAD: %w", err)
	}
	if onBranch {
		if err := r.Refs.WriteRef("refs/heads/"+branch, target); err != nil {
			return err
		}
	} else {
		if err := r.Refs.WriteHead(target.String()); err != nil {
			return err
		}
	}

	if mode == ResetSoft {
		return nil
	}

	priorIdx, err := r.loadIndex()
	if err != nil {
		return err
	}

	c, err := r.GetCommit(target)
	if err != nil {
		return err
	}
	files, err := r.ReadTreeRecursive(c.TreeID)
	if err != nil {
		return err
	}

	mixedIdx, err := r.buildMixedIndex(files)
	if err != nil {
		return err
	}

	if mode == ResetMixed {
		return r.saveIndex(mixedIdx)
	}

	for _, e := range priorIdx.Entries() {
		if err := r.removeWorkFile(e.Path); err != nil {
			return err
		}
	}
	for _, e := range mixedIdx.Entries() {
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
	return r.saveIndex(newIdx)
}

// buildMixedIndex constructs the index a mixed reset produces: one
// entry per target-tree file, sized and digested from the tree, with
// mtime taken from the existing working-tree file when one is present
// at that path, else zero.
func (r *Repository) buildMixedIndex(files []TreeFile) (*index.Index, error) {
	out := index.New()
	for _, f := range files {
		typ, content, err := r.Objects.Read(f.ID)
		if err != nil {
			return nil, xerrors.Errorf("could not read blob %s: %w", f.ID, err)
		}
		if typ != objstore.TypeBlob {
			return nil, xerrors.Errorf("object %s is not a blob", f.ID)
		}

		entry := index.Entry{Size: uint32(len(content)), Digest: f.ID, Path: f.Path}
		if r.workTree != "" {
			if info, err := r.fs.Stat(r.absWorkPath(f.Path)); err == nil {
				entry.MtimeS = uint64(info.ModTime().Unix())
			}
		}
		out.Put(entry)
	}
	return out, nil
}
