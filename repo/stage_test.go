package repo_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStageTracksFileAndReStagingRemovesDeleted(t *testing.T) {
	t.Parallel()
	r, fs := newTestRepo(t)

	writeFile(t, fs, "/work/a.txt", "x")
	require.NoError(t, r.Stage("a.txt"))

	st, err := r.Status()
	require.NoError(t, err)
	require.Len(t, st.Staged, 1)
	require.Equal(t, "a.txt", st.Staged[0].Path)

	require.NoError(t, fs.Remove("/work/a.txt"))
	require.NoError(t, r.Stage("a.txt"))

	st, err = r.Status()
	require.NoError(t, err)
	require.Empty(t, st.Staged)
	require.Empty(t, st.Untracked)
}

func TestStageAllTracksAndPrunesIndex(t *testing.T) {
	t.Parallel()
	r, fs := newTestRepo(t)

	writeFile(t, fs, "/work/a.txt", "x")
	writeFile(t, fs, "/work/dir/b.txt", "y")
	require.NoError(t, r.StageAll())

	st, err := r.Status()
	require.NoError(t, err)
	require.Len(t, st.Staged, 2)

	require.NoError(t, fs.Remove("/work/dir/b.txt"))
	require.NoError(t, r.StageAll())

	st, err = r.Status()
	require.NoError(t, err)
	require.Len(t, st.Staged, 1)
	require.Equal(t, "a.txt", st.Staged[0].Path)
}

func TestStageNormalizesBackslashes(t *testing.T) {
	t.Parallel()
	r, fs := newTestRepo(t)

	writeFile(t, fs, "/work/dir/a.txt", "x")
	require.NoError(t, r.Stage(`dir\a.txt`))

	st, err := r.Status()
	require.NoError(t, err)
	require.Len(t, st.Staged, 1)
	require.Equal(t, "dir/a.txt", st.Staged[0].Path)
}
