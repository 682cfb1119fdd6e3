package auth_test

import (
	"testing"

	"github.com/magicrepos/magicrepos/auth"
	"github.com/stretchr/testify/assert"
)

func TestOwnerAlwaysCanWrite(t *testing.T) {
	t.Parallel()

	s := auth.NewStatic()
	assert.True(t, s.CanWrite("ada", "ada", "repo"))
}

func TestGrantedWriterCanWrite(t *testing.T) {
	t.Parallel()

	s := auth.NewStatic()
	assert.False(t, s.CanWrite("bob", "ada", "repo"))
	s.Grant("ada", "repo", "bob")
	assert.True(t, s.CanWrite("bob", "ada", "repo"))
}

func TestDefaultReadersAllowsEveryone(t *testing.T) {
	t.Parallel()

	s := auth.NewStatic()
	assert.True(t, s.CanRead("anyone"))
}

func TestRestrictedReaders(t *testing.T) {
	t.Parallel()

	s := auth.NewStatic()
	s.Readers = map[string]bool{"ada": true}
	assert.True(t, s.CanRead("ada"))
	assert.False(t, s.CanRead("bob"))
}
