package repo_test

import (
	"testing"

	"github.com/magicrepos/magicrepos/objstore"
	"github.com/magicrepos/magicrepos/repo"
	"github.com/stretchr/testify/require"
)

func TestCreateBranchFailsOnUnbornHead(t *testing.T) {
	t.Parallel()
	r, _ := newTestRepo(t)

	err := r.CreateBranch("feature")
	require.ErrorIs(t, err, repo.ErrUnbornHead)
}

func TestCreateBranchFailsWhenAlreadyExists(t *testing.T) {
	t.Parallel()
	r, fs := newTestRepo(t)

	writeFile(t, fs, "/work/a.txt", "x")
	require.NoError(t, r.Stage("a.txt"))
	_, err := r.Commit("c1", objstore.Signature{})
	require.NoError(t, err)

	require.NoError(t, r.CreateBranch("feature"))
	err = r.CreateBranch("feature")
	require.ErrorIs(t, err, repo.ErrBranchExists)
}

func TestDeleteBranchFailsWhenCheckedOut(t *testing.T) {
	t.Parallel()
	r, fs := newTestRepo(t)

	writeFile(t, fs, "/work/a.txt", "x")
	require.NoError(t, r.Stage("a.txt"))
	_, err := r.Commit("c1", objstore.Signature{})
	require.NoError(t, err)

	err = r.DeleteBranch("main")
	require.ErrorIs(t, err, repo.ErrBranchCheckedOut)
}

func TestListBranchesSortedOrdinal(t *testing.T) {
	t.Parallel()
	r, fs := newTestRepo(t)

	writeFile(t, fs, "/work/a.txt", "x")
	require.NoError(t, r.Stage("a.txt"))
	_, err := r.Commit("c1", objstore.Signature{})
	require.NoError(t, err)

	require.NoError(t, r.CreateBranch("zeta"))
	require.NoError(t, r.CreateBranch("alpha"))

	names, err := r.ListBranches()
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "main", "zeta"}, names)
}
