package repo_test

import (
	"testing"

	"github.com/magicrepos/magicrepos/objstore"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// TestFastForwardCheckoutRoundTrip exercises the fast-forward
// checkout round-trip property: branching off main, checking it out,
// then checking main back out restores the working tree byte-for-byte
// and leaves the current branch name as "main".
func TestFastForwardCheckoutRoundTrip(t *testing.T) {
	t.Parallel()
	r, fs := newTestRepo(t)

	writeFile(t, fs, "/work/a.txt", "x")
	require.NoError(t, r.Stage("a.txt"))
	_, err := r.Commit("c1", objstore.Signature{})
	require.NoError(t, err)

	require.NoError(t, r.CreateBranch("b"))
	require.NoError(t, r.CheckoutBranch("b"))

	writeFile(t, fs, "/work/a.txt", "changed on b")
	require.NoError(t, r.Stage("a.txt"))
	_, err = r.Commit("c2", objstore.Signature{})
	require.NoError(t, err)

	require.NoError(t, r.CheckoutBranch("main"))

	content, err := afero.ReadFile(fs, "/work/a.txt")
	require.NoError(t, err)
	require.Equal(t, "x", string(content))

	name, onBranch, err := r.CurrentBranch()
	require.NoError(t, err)
	require.True(t, onBranch)
	require.Equal(t, "main", name)
}

func TestCheckoutRemovesFilesNotInTargetTree(t *testing.T) {
	t.Parallel()
	r, fs := newTestRepo(t)

	writeFile(t, fs, "/work/a.txt", "x")
	require.NoError(t, r.Stage("a.txt"))
	_, err := r.Commit("c1", objstore.Signature{})
	require.NoError(t, err)
	require.NoError(t, r.CreateBranch("b"))

	writeFile(t, fs, "/work/only-on-main.txt", "y")
	require.NoError(t, r.Stage("only-on-main.txt"))
	_, err = r.Commit("c2", objstore.Signature{})
	require.NoError(t, err)

	require.NoError(t, r.CheckoutBranch("b"))

	exists, err := afero.Exists(fs, "/work/only-on-main.txt")
	require.NoError(t, err)
	require.False(t, exists)
}
