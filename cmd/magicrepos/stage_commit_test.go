package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStageCommitLogRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	run := func(args ...string) error {
		cmd := newRootCmd()
		cmd.SetArgs(append(args, "-C", dir))
		return cmd.Execute()
	}

	require.NoError(t, run("init"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644))
	require.NoError(t, run("add", "a.txt"))
	require.NoError(t, run("commit", "-m", "first commit"))
	require.NoError(t, run("status"))
	require.NoError(t, run("log"))
}
