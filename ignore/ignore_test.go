package ignore_test

import (
	"testing"

	"github.com/magicrepos/magicrepos/ignore"
	"github.com/stretchr/testify/assert"
)

func TestControlDirAlwaysIgnored(t *testing.T) {
	t.Parallel()

	m := ignore.New(nil)
	assert.True(t, m.Ignored(".magicrepos", true))
	assert.True(t, m.Ignored(".magicrepos/HEAD", false))
}

func TestSimpleGlob(t *testing.T) {
	t.Parallel()

	m := ignore.New([]string{"*.log"})
	assert.True(t, m.Ignored("debug.log", false))
	assert.False(t, m.Ignored("debug.txt", false))
}

func TestDirOnlyPattern(t *testing.T) {
	t.Parallel()

	m := ignore.New([]string{"build/"})
	assert.True(t, m.Ignored("build", true))
	assert.False(t, m.Ignored("build", false))
}

func TestNegation(t *testing.T) {
	t.Parallel()

	m := ignore.New([]string{"*.log", "!keep.log"})
	assert.True(t, m.Ignored("debug.log", false))
	assert.False(t, m.Ignored("keep.log", false))
}

func TestDoubleStarMatchesAnyDepth(t *testing.T) {
	t.Parallel()

	m := ignore.New([]string{"**/node_modules"})
	assert.True(t, m.Ignored("node_modules", true))
	assert.True(t, m.Ignored("a/b/node_modules", true))
}

func TestAnchoredPattern(t *testing.T) {
	t.Parallel()

	m := ignore.New([]string{"/dist"})
	assert.True(t, m.Ignored("dist", true))
	assert.False(t, m.Ignored("sub/dist", true))
}
