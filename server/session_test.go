package server_test

import (
	"testing"

	"github.com/magicrepos/magicrepos/auth"
	"github.com/magicrepos/magicrepos/client"
	"github.com/magicrepos/magicrepos/config"
	"github.com/magicrepos/magicrepos/hash"
	"github.com/magicrepos/magicrepos/ignore"
	"github.com/magicrepos/magicrepos/objstore"
	"github.com/magicrepos/magicrepos/repo"
	"github.com/magicrepos/magicrepos/server"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// TestPushPullRoundTrip exercises spec.md §8 scenario 6: repo A has a
// single commit C on main; pushing from A to a fresh server-side repo
// B delivers exactly C's closure (one blob, one tree, one commit) and
// points refs/heads/main at C; pulling B back into A afterward is a
// no-op that yields no new objects.
func TestPushPullRoundTrip(t *testing.T) {
	t.Parallel()

	clientFs := afero.NewMemMapFs()
	a, err := repo.Init(clientFs, "/work", "/work/.magicrepos")
	require.NoError(t, err)
	a.SetIgnore(ignore.New(nil))
	a.SetConfig(config.Static{Name: "Ada", Email: "ada@example.com"})

	require.NoError(t, afero.WriteFile(clientFs, "/work/a.txt", []byte("hello"), 0o644))
	require.NoError(t, a.Stage("a.txt"))
	commitID, err := a.Commit("c1", objstore.Signature{})
	require.NoError(t, err)

	serverFs := afero.NewMemMapFs()
	repos := server.NewBareRepoStore(serverFs, "/srv")
	authOracle := auth.NewStatic()
	sess := server.NewSession(repos, authOracle, nil)

	clientSide, serverSide := client.NewPipePair()

	serverErrCh := make(chan error, 1)
	go func() { serverErrCh <- sess.Run(serverSide, "ada") }()

	require.NoError(t, client.Push(clientSide, a, "ada", "engine"))
	require.NoError(t, <-serverErrCh)

	b, err := repos.Open("ada", "engine")
	require.NoError(t, err)

	tip, err := b.Refs.ResolveBranch("main")
	require.NoError(t, err)
	require.Equal(t, commitID, tip)

	count := 0
	require.NoError(t, b.Objects.Walk(func(id hash.Oid) error {
		count++
		return nil
	}))
	require.Equal(t, 3, count)

	// Pulling B back into A is a no-op: no new objects appear.
	clientSide2, serverSide2 := client.NewPipePair()
	serverErrCh2 := make(chan error, 1)
	go func() { serverErrCh2 <- sess.Run(serverSide2, "ada") }()

	refMap, err := client.Pull(clientSide2, a, "ada", "engine", "origin")
	require.NoError(t, err)
	require.NoError(t, <-serverErrCh2)
	require.Equal(t, commitID, refMap["refs/heads/main"])

	count = 0
	require.NoError(t, a.Objects.Walk(func(id hash.Oid) error {
		count++
		return nil
	}))
	require.Equal(t, 3, count)
}
