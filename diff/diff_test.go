package diff_test

import (
	"strings"
	"testing"

	"github.com/magicrepos/magicrepos/diff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffIdenticalHasNoHunks(t *testing.T) {
	t.Parallel()

	a := "line1\nline2\nline3\n"
	result := diff.Diff(a, a)
	assert.Empty(t, result.Hunks)
}

func TestDiffFromEmptyIsAllAdded(t *testing.T) {
	t.Parallel()

	result := diff.Diff("", "a\nb\nc\n")
	require.Len(t, result.Hunks, 1)
	for _, l := range result.Hunks[0].Lines {
		assert.Equal(t, diff.Added, l.Kind)
	}
}

func TestDiffToEmptyIsAllRemoved(t *testing.T) {
	t.Parallel()

	result := diff.Diff("a\nb\nc\n", "")
	require.Len(t, result.Hunks, 1)
	for _, l := range result.Hunks[0].Lines {
		assert.Equal(t, diff.Removed, l.Kind)
	}
}

func TestDiffSingleLineChange(t *testing.T) {
	t.Parallel()

	result := diff.Diff("x\n", "z\n")
	require.Len(t, result.Hunks, 1)
	h := result.Hunks[0]
	assert.Equal(t, 1, h.OldStart)
	assert.Equal(t, 1, h.NewStart)

	var added, removed int
	for _, l := range h.Lines {
		switch l.Kind {
		case diff.Added:
			added++
		case diff.Removed:
			removed++
		}
	}
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, removed)
}

func TestSplitLinesDropsTrailingCR(t *testing.T) {
	t.Parallel()

	lines := diff.SplitLines("a\r\nb\r\n")
	assert.Equal(t, []string{"a", "b"}, lines)
}

func TestSplitLinesEmptyIsEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, diff.SplitLines(""))
}

func TestDiffGapMergesNearbyChanges(t *testing.T) {
	t.Parallel()

	oldLines := make([]string, 20)
	newLines := make([]string, 20)
	for i := range oldLines {
		oldLines[i] = "same"
		newLines[i] = "same"
	}
	newLines[2] = "changed-a"
	newLines[5] = "changed-b" // gap of 2 keeps between changes: must merge

	result := diff.Diff(strings.Join(oldLines, "\n")+"\n", strings.Join(newLines, "\n")+"\n")
	assert.Len(t, result.Hunks, 1)
}

func TestDiffFarApartChangesProduceSeparateHunks(t *testing.T) {
	t.Parallel()

	oldLines := make([]string, 40)
	newLines := make([]string, 40)
	for i := range oldLines {
		oldLines[i] = "same"
		newLines[i] = "same"
	}
	newLines[1] = "changed-a"
	newLines[35] = "changed-b"

	result := diff.Diff(strings.Join(oldLines, "\n")+"\n", strings.Join(newLines, "\n")+"\n")
	assert.Len(t, result.Hunks, 2)
}
