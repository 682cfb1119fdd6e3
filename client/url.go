// Package client implements the client-side push/pull state machines
// of spec.md §4.9 and the transport oracles that bind them to a real
// SSH subprocess or an in-memory pipe for tests.
package client

import (
	"errors"
	"strings"

	"golang.org/x/xerrors"
)

// ErrMalformedURL is returned when a remote URL does not match the
// "user@host:owner/repo" grammar.
var ErrMalformedURL = errors.New("malformed remote url")

// URL is a parsed remote target. Percent-decoding is never applied;
// hosts containing colons (IPv6 literals) are not supported.
type URL struct {
	User  string
	Host  string
	Owner string
	Repo  string
}

// ParseURL parses "user@host:owner/repo".
func ParseURL(raw string) (URL, error) {
	at := strings.IndexByte(raw, '@')
	if at < 0 {
		return URL{}, xerrors.Errorf("%q: no '@': %w", raw, ErrMalformedURL)
	}
	user := raw[:at]
	rest := raw[at+1:]

	colon := strings.IndexByte(rest, ':')
	if colon < 0 {
		return URL{}, xerrors.Errorf("%q: no ':': %w", raw, ErrMalformedURL)
	}
	host := rest[:colon]
	path := rest[colon+1:]

	slash := strings.IndexByte(path, '/')
	if slash < 0 {
		return URL{}, xerrors.Errorf("%q: no '/' in owner/repo: %w", raw, ErrMalformedURL)
	}
	owner := path[:slash]
	repoName := path[slash+1:]

	if user == "" || host == "" || owner == "" || repoName == "" {
		return URL{}, xerrors.Errorf("%q: empty field: %w", raw, ErrMalformedURL)
	}
	if strings.Contains(host, ":") {
		return URL{}, xerrors.Errorf("%q: IPv6 hosts are not supported: %w", raw, ErrMalformedURL)
	}

	return URL{User: user, Host: host, Owner: owner, Repo: repoName}, nil
}
