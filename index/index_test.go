package index_test

import (
	"testing"

	"github.com/magicrepos/magicrepos/hash"
	"github.com/magicrepos/magicrepos/index"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntry(path string, content string) index.Entry {
	return index.Entry{
		MtimeS: 1700000000,
		Size:   uint32(len(content)),
		Digest: hash.Sum([]byte(content)),
		Path:   path,
	}
}

func TestIndexRoundTrip(t *testing.T) {
	t.Parallel()

	idx := index.New()
	idx.Put(sampleEntry("b.txt", "y"))
	idx.Put(sampleEntry("a.txt", "x"))

	encoded := index.Encode(idx)
	decoded, err := index.Decode(encoded)
	require.NoError(t, err)

	assert.Equal(t, idx.Entries(), decoded.Entries())
}

func TestIndexEntriesSortedOrdinal(t *testing.T) {
	t.Parallel()

	idx := index.New()
	idx.Put(sampleEntry("zeta", "z"))
	idx.Put(sampleEntry("alpha", "a"))
	idx.Put(sampleEntry("mid", "m"))

	entries := idx.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "alpha", entries[0].Path)
	assert.Equal(t, "mid", entries[1].Path)
	assert.Equal(t, "zeta", entries[2].Path)
}

func TestIndexPutReplacesExistingPath(t *testing.T) {
	t.Parallel()

	idx := index.New()
	idx.Put(sampleEntry("a.txt", "x"))
	idx.Put(sampleEntry("a.txt", "y"))

	require.Equal(t, 1, idx.Len())
	e, ok := idx.Get("a.txt")
	require.True(t, ok)
	assert.Equal(t, hash.Sum([]byte("y")), e.Digest)
}

func TestIndexRemove(t *testing.T) {
	t.Parallel()

	idx := index.New()
	idx.Put(sampleEntry("a.txt", "x"))
	idx.Remove("a.txt")
	assert.Equal(t, 0, idx.Len())
}

func TestIndexCorruptionDetection(t *testing.T) {
	t.Parallel()

	idx := index.New()
	idx.Put(sampleEntry("a.txt", "x"))
	idx.Put(sampleEntry("b.txt", "y"))
	encoded := index.Encode(idx)

	t.Run("flipped byte in the middle fails checksum", func(t *testing.T) {
		t.Parallel()
		corrupt := make([]byte, len(encoded))
		copy(corrupt, encoded)
		corrupt[10] ^= 0xFF
		_, err := index.Decode(corrupt)
		require.Error(t, err)
		assert.ErrorIs(t, err, index.ErrCorrupt)
	})

	t.Run("truncated footer fails", func(t *testing.T) {
		t.Parallel()
		truncated := encoded[:len(encoded)-4]
		_, err := index.Decode(truncated)
		require.Error(t, err)
		assert.ErrorIs(t, err, index.ErrCorrupt)
	})

	t.Run("bad magic fails", func(t *testing.T) {
		t.Parallel()
		corrupt := make([]byte, len(encoded))
		copy(corrupt, encoded)
		corrupt[0] = 'X'
		_, err := index.Decode(corrupt)
		require.Error(t, err)
		assert.ErrorIs(t, err, index.ErrCorrupt)
	})
}

func TestIndexLoadMissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	idx, err := index.Load(fs, "/repo/.magicrepos/index")
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
}

func TestIndexSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	idx := index.New()
	idx.Put(sampleEntry("a.txt", "x"))

	require.NoError(t, index.Save(fs, "/repo/.magicrepos/index", idx))
	loaded, err := index.Load(fs, "/repo/.magicrepos/index")
	require.NoError(t, err)
	assert.Equal(t, idx.Entries(), loaded.Entries())
}
