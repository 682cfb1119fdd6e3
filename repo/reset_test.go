package repo_test

import (
	"testing"

	"github.com/magicrepos/magicrepos/objstore"
	"github.com/magicrepos/magicrepos/repo"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// TestHardResetErasesUnstagedChanges exercises spec scenario 5:
// continuing scenario 4, a hard reset to HEAD restores a.txt to "x"
// and leaves status clean.
func TestHardResetErasesUnstagedChanges(t *testing.T) {
	t.Parallel()
	r, fs := newTestRepo(t)

	writeFile(t, fs, "/work/a.txt", "x")
	require.NoError(t, r.Stage("a.txt"))
	_, err := r.Commit("c1", objstore.Signature{})
	require.NoError(t, err)

	writeFile(t, fs, "/work/a.txt", "z")

	require.NoError(t, r.Reset("HEAD", repo.ResetHard))

	content, err := afero.ReadFile(fs, "/work/a.txt")
	require.NoError(t, err)
	require.Equal(t, "x", string(content))

	st, err := r.Status()
	require.NoError(t, err)
	require.Empty(t, st.Staged)
	require.Empty(t, st.Unstaged)
	require.Empty(t, st.Untracked)
}

func TestSoftResetOnlyMovesHead(t *testing.T) {
	t.Parallel()
	r, fs := newTestRepo(t)

	writeFile(t, fs, "/work/a.txt", "x")
	require.NoError(t, r.Stage("a.txt"))
	c1, err := r.Commit("c1", objstore.Signature{})
	require.NoError(t, err)

	writeFile(t, fs, "/work/b.txt", "y")
	require.NoError(t, r.Stage("b.txt"))
	_, err = r.Commit("c2", objstore.Signature{})
	require.NoError(t, err)

	require.NoError(t, r.Reset(c1.String(), repo.ResetSoft))

	tip, err := r.Refs.ResolveBranch("main")
	require.NoError(t, err)
	require.Equal(t, c1, tip)

	st, err := r.Status()
	require.NoError(t, err)
	require.Len(t, st.Staged, 1)
	require.Equal(t, repo.Added, st.Staged[0].Kind)
}

func TestMixedResetRewritesIndexOnly(t *testing.T) {
	t.Parallel()
	r, fs := newTestRepo(t)

	writeFile(t, fs, "/work/a.txt", "x")
	require.NoError(t, r.Stage("a.txt"))
	c1, err := r.Commit("c1", objstore.Signature{})
	require.NoError(t, err)

	writeFile(t, fs, "/work/b.txt", "y")
	require.NoError(t, r.Stage("b.txt"))
	_, err = r.Commit("c2", objstore.Signature{})
	require.NoError(t, err)

	require.NoError(t, r.Reset(c1.String(), repo.ResetMixed))

	// b.txt is still on disk (mixed reset preserves the working tree)
	// but no longer tracked in HEAD, so it now shows as untracked.
	st, err := r.Status()
	require.NoError(t, err)
	require.Empty(t, st.Staged)
	require.Contains(t, st.Untracked, "b.txt")
}
