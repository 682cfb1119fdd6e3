package repo

import (
	"github.com/magicrepos/magicrepos/hash"
	"github.com/magicrepos/magicrepos/objstore"
	"github.com/magicrepos/magicrepos/worktree"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// ChangeKind classifies one status entry.
type ChangeKind int

// Change kinds.
const (
	Added ChangeKind = iota
	Modified
	Deleted
)

// Change is one path's status under a given list (staged, unstaged,
// or untracked).
type Change struct {
	Path string
	Kind ChangeKind
}

// Status is the three-way classification of working-tree state
// relative to the index and HEAD.
type Status struct {
	Staged    []Change
	Unstaged  []Change
	Untracked []string
}

// headBlobs returns the flattened HEAD tree as a path->digest map, or
// an empty map if HEAD is unborn.
func (r *Repository) headBlobs() (map[string]hash.Oid, error) {
	id, ok, err := r.Refs.ResolveHead()
	if err != nil {
		return nil, xerrors.Errorf("could not resolve HEAD: %w", err)
	}
	if !ok {
		return map[string]hash.Oid{}, nil
	}
	c, err := r.GetCommit(id)
	if err != nil {
		return nil, err
	}
	files, err := r.ReadTreeRecursive(c.TreeID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]hash.Oid, len(files))
	for _, f := range files {
		out[f.Path] = f.ID
	}
	return out, nil
}

// Status computes the staged/unstaged/untracked classification
// described in the repository facade's status operation.
func (r *Repository) Status() (*Status, error) {
	idx, err := r.loadIndex()
	if err != nil {
		return nil, err
	}
	head, err := r.headBlobs()
	if err != nil {
		return nil, err
	}

	st := &Status{Staged: []Change{}, Unstaged: []Change{}, Untracked: []string{}}

	indexByPath := map[string]hash.Oid{}
	for _, e := range idx.Entries() {
		indexByPath[e.Path] = e.Digest
	}

	for path, digest := range indexByPath {
		if headDigest, ok := head[path]; ok {
			if headDigest != digest {
				st.Staged = append(st.Staged, Change{Path: path, Kind: Modified})
			}
			continue
		}
		st.Staged = append(st.Staged, Change{Path: path, Kind: Added})
	}
	for path := range head {
		if _, ok := indexByPath[path]; !ok {
			st.Staged = append(st.Staged, Change{Path: path, Kind: Deleted})
		}
	}

	scanner := worktree.New(r.fs, r.workTree, r.ignore)
	present, err := scanner.ListFiles()
	if err != nil {
		return nil, xerrors.Errorf("could not scan working tree: %w", err)
	}
	presentSet := make(map[string]bool, len(present))
	for _, p := range present {
		presentSet[p] = true
	}

	for _, p := range present {
		digest, tracked := indexByPath[p]
		if !tracked {
			st.Untracked = append(st.Untracked, p)
			continue
		}
		content, err := afero.ReadFile(r.fs, r.absWorkPath(p))
		if err != nil {
			return nil, xerrors.Errorf("could not read %s: %w", p, err)
		}
		if objstore.ComputeID(objstore.TypeBlob, content) != digest {
			st.Unstaged = append(st.Unstaged, Change{Path: p, Kind: Modified})
		}
	}
	for path := range indexByPath {
		if !presentSet[path] {
			st.Unstaged = append(st.Unstaged, Change{Path: path, Kind: Deleted})
		}
	}

	return st, nil
}
