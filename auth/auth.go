// Package auth supplies an in-memory authorization oracle suitable
// for tests and the reference server binary. Real deployments are
// expected to supply their own.
package auth

// Static is an in-memory authorization oracle. The owner of a
// namespace is always writable to themselves, regardless of the
// writers table, per the oracle contract in the external-interfaces
// spec.
type Static struct {
	// Readers, if non-nil, restricts CanRead to the listed users. A nil
	// map means every caller can read.
	Readers map[string]bool
	// Writers maps "owner/repo" to the set of users allowed to push to
	// it, beyond the owner themselves.
	Writers map[string]map[string]bool
}

// NewStatic returns an empty Static oracle: everyone can read,
// nobody but the namespace owner can write.
func NewStatic() *Static {
	return &Static{Writers: map[string]map[string]bool{}}
}

// CanRead returns whether user has read access.
func (s *Static) CanRead(user string) bool {
	if s.Readers == nil {
		return true
	}
	return s.Readers[user]
}

// CanWrite returns whether user can push to owner/repo.
func (s *Static) CanWrite(user, owner, repo string) bool {
	if user == owner {
		return true
	}
	writers := s.Writers[owner+"/"+repo]
	return writers != nil && writers[user]
}

// Grant adds user to the writer set of owner/repo.
func (s *Static) Grant(owner, repo, user string) {
	key := owner + "/" + repo
	if s.Writers[key] == nil {
		s.Writers[key] = map[string]bool{}
	}
	s.Writers[key][user] = true
}
