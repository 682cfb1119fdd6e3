package repo

import (
	"errors"

	"github.com/magicrepos/magicrepos/refs"
	"golang.org/x/xerrors"
)

// CreateBranch writes refs/heads/{name} to HEAD's resolved commit. It
// fails with ErrUnbornHead if HEAD has no commit yet, or
// ErrBranchExists if the branch is already present.
func (r *Repository) CreateBranch(name string) error {
	id, ok, err := r.Refs.ResolveHead()
	if err != nil {
		return xerrors.Errorf("could not resolve HEAD: %w", err)
	}
	if !ok {
		return xerrors.Errorf("%w", ErrUnbornHead)
	}

	if err := r.Refs.CreateBranch(name, id); err != nil {
		if errors.Is(err, refs.ErrExists) {
			return xerrors.Errorf("%s: %w", name, ErrBranchExists)
		}
		return err
	}
	return nil
}

// DeleteBranch removes refs/heads/{name}. It fails with
// ErrBranchCheckedOut if name is the current branch, or ErrNotFound if
// it does not exist.
func (r *Repository) DeleteBranch(name string) error {
	current, onBranch, err := r.Refs.CurrentBranchName()
	if err != nil {
		return xerrors.Errorf("could not read HEAD: %w", err)
	}
	if onBranch && current == name {
		return xerrors.Errorf("%s: %w", name, ErrBranchCheckedOut)
	}

	if err := r.Refs.DeleteBranch(name); err != nil {
		if errors.Is(err, refs.ErrNotFound) {
			return xerrors.Errorf("%s: %w", name, ErrNotFound)
		}
		return err
	}
	return nil
}

// ListBranches returns every branch name, sorted ordinally.
func (r *Repository) ListBranches() ([]string, error) {
	return r.Refs.ListBranches()
}

// CurrentBranch returns the short name of the branch HEAD points to,
// or ("", false) if HEAD is detached.
func (r *Repository) CurrentBranch() (string, bool, error) {
	return r.Refs.CurrentBranchName()
}
