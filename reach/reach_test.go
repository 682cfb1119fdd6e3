package reach_test

import (
	"testing"
	"time"

	"github.com/magicrepos/magicrepos/hash"
	"github.com/magicrepos/magicrepos/objstore"
	"github.com/magicrepos/magicrepos/reach"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestCollectClosureOfOneCommit(t *testing.T) {
	t.Parallel()

	store := objstore.New(afero.NewMemMapFs(), "/repo")

	blobID, err := store.Put(objstore.TypeBlob, []byte("hello"))
	require.NoError(t, err)

	tree := objstore.NewTree([]objstore.TreeEntry{{Name: "a.txt", Mode: objstore.ModeFile, ID: blobID}})
	treeObj := tree.ToObject()
	treeID, err := store.Put(treeObj.Type, treeObj.Content)
	require.NoError(t, err)

	c := &objstore.Commit{
		TreeID:    treeID,
		Author:    objstore.Signature{Name: "a", Email: "a@b.c", Time: time.Unix(0, 0)},
		Committer: objstore.Signature{Name: "a", Email: "a@b.c", Time: time.Unix(0, 0)},
		Message:   "m",
	}
	commitObj := c.ToObject()
	commitID, err := store.Put(commitObj.Type, commitObj.Content)
	require.NoError(t, err)

	set := map[hash.Oid]bool{}
	require.NoError(t, reach.Collect(store, commitID, set))

	require.Len(t, set, 3)
	require.True(t, set[commitID])
	require.True(t, set[treeID])
	require.True(t, set[blobID])
}

func TestCollectMissingObjectTerminatesBranch(t *testing.T) {
	t.Parallel()

	store := objstore.New(afero.NewMemMapFs(), "/repo")
	missing := hash.Sum([]byte("never stored"))

	set := map[hash.Oid]bool{}
	require.NoError(t, reach.Collect(store, missing, set))
	require.Empty(t, set)
}

func TestCollectSkipsAlreadyVisited(t *testing.T) {
	t.Parallel()

	store := objstore.New(afero.NewMemMapFs(), "/repo")
	blobID, err := store.Put(objstore.TypeBlob, []byte("x"))
	require.NoError(t, err)

	set := map[hash.Oid]bool{blobID: true}
	require.NoError(t, reach.Collect(store, blobID, set))
	require.Len(t, set, 1)
}
