package repo

import (
	"time"

	"github.com/magicrepos/magicrepos/hash"
	"github.com/magicrepos/magicrepos/objstore"
	"golang.org/x/xerrors"
)

// defaultAuthorName and defaultAuthorEmail are the fallbacks used when
// no config oracle is attached, or it has no value for a field.
const (
	defaultAuthorName  = "Unknown"
	defaultAuthorEmail = "unknown@unknown"
)

// Commit is a single node of the log: its own id plus the decoded
// commit object.
type Commit struct {
	ID hash.Oid
	objstore.Commit
}

// resolveAuthor fills in name/email from the attached config oracle,
// falling back to the spec's defaults, and stamps the current local
// time with its offset.
func (r *Repository) resolveAuthor() objstore.Signature {
	name := defaultAuthorName
	email := defaultAuthorEmail
	if r.config != nil {
		if n, ok := r.config.UserName(); ok {
			name = n
		}
		if e, ok := r.config.UserEmail(); ok {
			email = e
		}
	}
	return objstore.Signature{Name: name, Email: email, Time: time.Now()}
}

// Commit reads the current index, builds a tree from it, and writes a
// new commit object with HEAD's resolved commit (if any) as its sole
// parent. It fails with ErrEmptyCommit if the index has no entries. If
// author is the zero Signature, one is derived from the attached
// config oracle (see resolveAuthor). The committer is always equal to
// the author (single-user model). HEAD is advanced: the current
// branch ref is rewritten if HEAD is symbolic, else HEAD itself is
// rewritten with the new detached hex id.
func (r *Repository) Commit(message string, author objstore.Signature) (hash.Oid, error) {
	idx, err := r.loadIndex()
	if err != nil {
		return hash.NullOid, err
	}
	entries := idx.Entries()
	if len(entries) == 0 {
		return hash.NullOid, xerrors.Errorf("%w", ErrEmptyCommit)
	}

	treeID, err := r.BuildTree(entries)
	if err != nil {
		return hash.NullOid, xerrors.Errorf("could not build tree: %w", err)
	}

	var parents []hash.Oid
	parentID, ok, err := r.Refs.ResolveHead()
	if err != nil {
		return hash.NullOid, xerrors.Errorf("could not resolve HEAD: %w", err)
	}
	if ok {
		parents = append(parents, parentID)
	}

	if author.IsZero() {
		author = r.resolveAuthor()
	}

	c := &objstore.Commit{
		TreeID:    treeID,
		ParentIDs: parents,
		Author:    author,
		Committer: author,
		Message:   message,
	}
	obj := c.ToObject()
	id, err := r.Objects.Put(obj.Type, obj.Content)
	if err != nil {
		return hash.NullOid, xerrors.Errorf("could not store commit: %w", err)
	}

	if err := r.advanceHead(id); err != nil {
		return hash.NullOid, err
	}
	return id, nil
}

// advanceHead moves HEAD to id: the current branch ref if HEAD is
// symbolic, else HEAD itself in detached form.
func (r *Repository) advanceHead(id hash.Oid) error {
	branch, onBranch, err := r.Refs.CurrentBranchName()
	if err != nil {
		return xerrors.Errorf("could not read HEAD: %w", err)
	}
	if onBranch {
		return r.Refs.WriteRef("refs/heads/"+branch, id)
	}
	return r.Refs.WriteHead(id.String())
}

// GetCommit reads and decodes the commit object stored at id.
func (r *Repository) GetCommit(id hash.Oid) (*Commit, error) {
	typ, content, err := r.Objects.Read(id)
	if err != nil {
		return nil, xerrors.Errorf("could not read commit %s: %w", id, err)
	}
	if typ != objstore.TypeCommit {
		return nil, xerrors.Errorf("object %s is not a commit", id)
	}
	c, err := objstore.CommitFromObject(objstore.New(typ, content))
	if err != nil {
		return nil, err
	}
	return &Commit{ID: id, Commit: *c}, nil
}
