package repo

import (
	"github.com/magicrepos/magicrepos/hash"
	"golang.org/x/xerrors"
)

// Log returns the first-parent history starting at HEAD, most recent
// commit first. An unborn HEAD yields an empty, non-nil slice.
func (r *Repository) Log() ([]*Commit, error) {
	id, ok, err := r.Refs.ResolveHead()
	if err != nil {
		return nil, xerrors.Errorf("could not resolve HEAD: %w", err)
	}
	if !ok {
		return []*Commit{}, nil
	}
	return r.LogFrom(id)
}

// LogFrom walks the first-parent chain starting at id, most recent
// first.
func (r *Repository) LogFrom(id hash.Oid) ([]*Commit, error) {
	out := []*Commit{}
	for !id.IsZero() {
		c, err := r.GetCommit(id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
		if len(c.ParentIDs) == 0 {
			break
		}
		id = c.ParentIDs[0]
	}
	return out, nil
}
