// Package ignore is a standalone .gitignore-style path matcher: glob
// segments, "**" for arbitrary depth, leading "!" negation, and
// trailing-slash directory-only patterns. It is a convenience adapter
// satisfying the engine's ignore oracle, not part of the core engine.
package ignore

import (
	"path"
	"strings"
)

// controlDirName is always ignored, regardless of patterns, per the
// ignore oracle's contract.
const controlDirName = ".magicrepos"

type rule struct {
	pattern   string
	negate    bool
	dirOnly   bool
	anchored  bool // pattern contains a "/" other than a trailing one
}

// Matcher is an ordered list of gitignore-style rules; later rules
// override earlier ones, exactly like real Git.
type Matcher struct {
	rules []rule
}

// New compiles patterns (one per line, in gitignore syntax) into a
// Matcher. Blank lines and lines starting with "#" are skipped.
func New(patterns []string) *Matcher {
	m := &Matcher{}
	for _, p := range patterns {
		p = strings.TrimRight(p, "\r")
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		r := rule{pattern: p}
		if strings.HasPrefix(p, "!") {
			r.negate = true
			r.pattern = p[1:]
		}
		if strings.HasSuffix(r.pattern, "/") {
			r.dirOnly = true
			r.pattern = strings.TrimSuffix(r.pattern, "/")
		}
		r.anchored = strings.Contains(r.pattern, "/")
		r.pattern = strings.TrimPrefix(r.pattern, "/")
		m.rules = append(m.rules, r)
	}
	return m
}

// Ignored implements worktree.IgnoreOracle.
func (m *Matcher) Ignored(relPath string, isDir bool) bool {
	if relPath == controlDirName || strings.HasPrefix(relPath, controlDirName+"/") {
		return true
	}

	ignored := false
	for _, r := range m.rules {
		if r.dirOnly && !isDir {
			continue
		}
		if matchRule(r, relPath) {
			ignored = !r.negate
		}
	}
	return ignored
}

func matchRule(r rule, relPath string) bool {
	if r.anchored {
		ok, _ := matchGlob(r.pattern, relPath)
		return ok
	}

	// unanchored: match against the full path or any path suffix
	// starting at a "/" boundary (i.e. any basename along the path).
	segments := strings.Split(relPath, "/")
	for i := range segments {
		candidate := strings.Join(segments[i:], "/")
		if ok, _ := matchGlob(r.pattern, candidate); ok {
			return true
		}
	}
	return false
}

// matchGlob matches pattern against name, honoring "**" as "match zero
// or more path segments" in addition to path.Match's single-segment
// glob syntax.
func matchGlob(pattern, name string) (bool, error) {
	if !strings.Contains(pattern, "**") {
		return path.Match(pattern, name)
	}

	parts := strings.SplitN(pattern, "**", 2)
	prefix := strings.TrimSuffix(parts[0], "/")
	suffix := strings.TrimPrefix(parts[1], "/")

	if prefix != "" {
		if !strings.HasPrefix(name, prefix) {
			return false, nil
		}
		name = strings.TrimPrefix(name, prefix)
		name = strings.TrimPrefix(name, "/")
	}
	if suffix == "" {
		return true, nil
	}
	if name == "" {
		return false, nil
	}
	segments := strings.Split(name, "/")
	for i := range segments {
		candidate := strings.Join(segments[i:], "/")
		if ok, _ := path.Match(suffix, candidate); ok {
			return true, nil
		}
	}
	return false, nil
}
