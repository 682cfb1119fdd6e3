package objstore

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/magicrepos/magicrepos/hash"
	"golang.org/x/xerrors"
)

// ErrCommitInvalid is returned when a commit object's content cannot
// be parsed.
var ErrCommitInvalid = errors.New("invalid commit")

// ErrSignatureInvalid is returned when a "Name <email> ts tz"
// signature cannot be parsed.
var ErrSignatureInvalid = errors.New("invalid signature")

// Signature is an author/committer identity and timestamp.
type Signature struct {
	Name  string
	Email string
	Time  time.Time
}

// String renders the signature as "Name <email> unix_seconds ±HHMM".
func (s Signature) String() string {
	return fmt.Sprintf("%s <%s> %d %s", s.Name, s.Email, s.Time.Unix(), s.Time.Format("-0700"))
}

// IsZero returns whether s has no name, email, or time set.
func (s Signature) IsZero() bool {
	return s.Name == "" && s.Email == "" && s.Time.IsZero()
}

// NewSignature builds a signature at the current time.
func NewSignature(name, email string) Signature {
	return Signature{Name: name, Email: email, Time: time.Now()}
}

// ParseSignature parses the "Name <email> unix_seconds ±HHMM" form.
func ParseSignature(b []byte) (Signature, error) {
	var sig Signature

	ltIdx := bytes.IndexByte(b, '<')
	if ltIdx < 0 {
		return sig, xerrors.Errorf("no '<' found: %w", ErrSignatureInvalid)
	}
	sig.Name = strings.TrimSpace(string(b[:ltIdx]))

	gtIdx := bytes.IndexByte(b[ltIdx:], '>')
	if gtIdx < 0 {
		return sig, xerrors.Errorf("no '>' found: %w", ErrSignatureInvalid)
	}
	gtIdx += ltIdx
	sig.Email = string(b[ltIdx+1 : gtIdx])

	rest := bytes.TrimSpace(b[gtIdx+1:])
	parts := bytes.SplitN(rest, []byte{' '}, 2)
	if len(parts) != 2 {
		return sig, xerrors.Errorf("missing timestamp/timezone: %w", ErrSignatureInvalid)
	}

	ts, err := strconv.ParseInt(string(parts[0]), 10, 64)
	if err != nil {
		return sig, xerrors.Errorf("invalid timestamp %q: %w", parts[0], ErrSignatureInvalid)
	}
	sig.Time = time.Unix(ts, 0)

	tz, err := time.Parse("-0700", string(parts[1]))
	if err != nil {
		return sig, xerrors.Errorf("invalid timezone %q: %w", parts[1], ErrSignatureInvalid)
	}
	sig.Time = sig.Time.In(tz.Location())
	return sig, nil
}

// Commit is a typed view over a commit Object.
type Commit struct {
	TreeID    hash.Oid
	ParentIDs []hash.Oid
	Author    Signature
	Committer Signature
	Message   string
}

// ToObject serializes the commit into an Object.
func (c *Commit) ToObject() *Object {
	buf := new(bytes.Buffer)
	buf.WriteString("tree ")
	buf.WriteString(c.TreeID.String())
	buf.WriteByte('\n')

	for _, p := range c.ParentIDs {
		buf.WriteString("parent ")
		buf.WriteString(p.String())
		buf.WriteByte('\n')
	}

	buf.WriteString("author ")
	buf.WriteString(c.Author.String())
	buf.WriteByte('\n')

	buf.WriteString("committer ")
	buf.WriteString(c.Committer.String())
	buf.WriteByte('\n')

	buf.WriteByte('\n')
	buf.WriteString(c.Message)

	return New(TypeCommit, buf.Bytes())
}

// CommitFromObject parses o's content into a Commit.
//
// A commit is a sequence of "key value" lines ("tree", zero or more
// "parent", "author", "committer"), a blank line, then the free-form
// message.
func CommitFromObject(o *Object) (*Commit, error) {
	c := &Commit{}
	data := o.Content
	offset := 0
	for {
		nl := bytes.IndexByte(data[offset:], '\n')
		var line []byte
		if nl < 0 {
			line = data[offset:]
		} else {
			line = data[offset : offset+nl]
		}

		if len(line) == 0 {
			if nl < 0 {
				break
			}
			offset += 1
			c.Message = string(data[offset:])
			break
		}

		kv := bytes.SplitN(line, []byte{' '}, 2)
		if len(kv) != 2 {
			return nil, xerrors.Errorf("malformed header line %q: %w", line, ErrCommitInvalid)
		}
		var err error
		switch string(kv[0]) {
		case "tree":
			c.TreeID, err = hash.FromChars(kv[1])
			if err != nil {
				return nil, xerrors.Errorf("invalid tree id %q: %w", kv[1], ErrCommitInvalid)
			}
		case "parent":
			var pid hash.Oid
			pid, err = hash.FromChars(kv[1])
			if err != nil {
				return nil, xerrors.Errorf("invalid parent id %q: %w", kv[1], ErrCommitInvalid)
			}
			c.ParentIDs = append(c.ParentIDs, pid)
		case "author":
			c.Author, err = ParseSignature(kv[1])
			if err != nil {
				return nil, xerrors.Errorf("invalid author signature: %w", err)
			}
		case "committer":
			c.Committer, err = ParseSignature(kv[1])
			if err != nil {
				return nil, xerrors.Errorf("invalid committer signature: %w", err)
			}
		}

		offset += nl + 1
		if nl < 0 {
			break
		}
	}

	if c.Author.IsZero() {
		return nil, xerrors.Errorf("commit has no author: %w", ErrCommitInvalid)
	}
	if c.TreeID.IsZero() {
		return nil, xerrors.Errorf("commit has no tree: %w", ErrCommitInvalid)
	}
	return c, nil
}
