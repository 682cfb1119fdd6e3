package repo_test

import (
	"testing"

	"github.com/magicrepos/magicrepos/objstore"
	"github.com/magicrepos/magicrepos/repo"
	"github.com/stretchr/testify/require"
)

// TestStatusModified exercises spec scenario 4: after committing
// a.txt="x", overwriting it with "z" reports it unstaged-modified with
// empty staged/untracked lists.
func TestStatusModified(t *testing.T) {
	t.Parallel()
	r, fs := newTestRepo(t)

	writeFile(t, fs, "/work/a.txt", "x")
	require.NoError(t, r.Stage("a.txt"))
	_, err := r.Commit("c1", objstore.Signature{})
	require.NoError(t, err)

	writeFile(t, fs, "/work/a.txt", "z")

	st, err := r.Status()
	require.NoError(t, err)
	require.Empty(t, st.Staged)
	require.Empty(t, st.Untracked)
	require.Equal(t, []repo.Change{{Path: "a.txt", Kind: repo.Modified}}, st.Unstaged)
}

func TestStatusCleanWhenDigestsMatch(t *testing.T) {
	t.Parallel()
	r, fs := newTestRepo(t)

	writeFile(t, fs, "/work/a.txt", "x")
	require.NoError(t, r.Stage("a.txt"))
	_, err := r.Commit("c1", objstore.Signature{})
	require.NoError(t, err)

	st, err := r.Status()
	require.NoError(t, err)
	require.Empty(t, st.Staged)
	require.Empty(t, st.Unstaged)
	require.Empty(t, st.Untracked)
}

func TestStatusStagedAddition(t *testing.T) {
	t.Parallel()
	r, fs := newTestRepo(t)

	writeFile(t, fs, "/work/a.txt", "x")
	require.NoError(t, r.Stage("a.txt"))
	_, err := r.Commit("c1", objstore.Signature{})
	require.NoError(t, err)

	require.NoError(t, r.Stage("a.txt")) // nothing changed, idempotent
	writeFile(t, fs, "/work/b.txt", "y")
	require.NoError(t, r.Stage("b.txt"))

	idx, err := r.Status()
	require.NoError(t, err)
	require.Contains(t, idx.Staged, repo.Change{Path: "b.txt", Kind: repo.Added})
}
