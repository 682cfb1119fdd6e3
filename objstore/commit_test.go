package objstore_test

import (
	"testing"
	"time"

	"github.com/magicrepos/magicrepos/objstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureStringParseRoundTrip(t *testing.T) {
	t.Parallel()

	sig := objstore.Signature{
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
		Time:  time.Unix(1700000000, 0).In(time.FixedZone("", -7*3600)),
	}

	parsed, err := objstore.ParseSignature([]byte(sig.String()))
	require.NoError(t, err)
	assert.Equal(t, sig.Name, parsed.Name)
	assert.Equal(t, sig.Email, parsed.Email)
	assert.Equal(t, sig.Time.Unix(), parsed.Time.Unix())
}

func TestParseSignatureInvalid(t *testing.T) {
	t.Parallel()

	_, err := objstore.ParseSignature([]byte("no angle brackets here"))
	require.Error(t, err)
}

func TestCommitRootHasNoParents(t *testing.T) {
	t.Parallel()

	treeID := objstore.ComputeID(objstore.TypeTree, nil)
	sig := objstore.NewSignature("Ada", "ada@example.com")

	c := &objstore.Commit{
		TreeID:    treeID,
		Author:    sig,
		Committer: sig,
		Message:   "root commit",
	}

	obj := c.ToObject()
	got, err := objstore.CommitFromObject(obj)
	require.NoError(t, err)
	assert.Empty(t, got.ParentIDs)
	assert.Equal(t, treeID, got.TreeID)
	assert.Equal(t, "root commit", got.Message)
}

func TestCommitWithParent(t *testing.T) {
	t.Parallel()

	treeID := objstore.ComputeID(objstore.TypeTree, nil)
	parentID := objstore.ComputeID(objstore.TypeCommit, []byte("parent"))
	sig := objstore.NewSignature("Ada", "ada@example.com")

	c2 := &objstore.Commit{
		TreeID:    treeID,
		ParentIDs: nil,
		Author:    sig,
		Committer: sig,
		Message:   "second commit\n",
	}
	c2.ParentIDs = append(c2.ParentIDs, parentID)

	got, err := objstore.CommitFromObject(c2.ToObject())
	require.NoError(t, err)
	require.Len(t, got.ParentIDs, 1)
	assert.Equal(t, parentID, got.ParentIDs[0])
	assert.Equal(t, "second commit\n", got.Message)
}

func TestCommitMissingTreeIsInvalid(t *testing.T) {
	t.Parallel()

	obj := objstore.New(objstore.TypeCommit, []byte("author Ada <a@b.c> 1 +0000\ncommitter Ada <a@b.c> 1 +0000\n\nmsg"))
	_, err := objstore.CommitFromObject(obj)
	require.Error(t, err)
}
