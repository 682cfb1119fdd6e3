package pathutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
)

// PathKind constrains what a pathFlag is allowed to resolve to.
type PathKind int

const (
	// KindFile requires the resolved path to be a regular file.
	KindFile PathKind = iota
	// KindDir requires the resolved path to be a directory, the
	// shape magicrepos' -C flag needs.
	KindDir
	// KindAny accepts either a file or a directory.
	KindAny
)

// ErrWrongKind is returned when a resolved path exists but is not the
// kind the flag was constructed to accept.
var ErrWrongKind = errors.New("path is not the expected kind")

// pathFlag is a pflag.Value for a single filesystem path, used by
// magicrepos' global -C flag so relative directory arguments stack
// onto whatever was given before them instead of replacing it.
type pathFlag struct {
	resolved  string
	fallback  string
	kind      PathKind
	mustExist bool
	isSet     bool
}

var _ pflag.Value = (*pathFlag)(nil)

func newPathFlag(kind PathKind, fallback string) *pathFlag {
	return &pathFlag{kind: kind, mustExist: true, fallback: fallback}
}

// NewDirPathFlagWithDefault returns a pflag.Value that must resolve
// to an existing directory, falling back to defaultPath when never
// set.
func NewDirPathFlagWithDefault(defaultPath string) pflag.Value {
	return newPathFlag(KindDir, defaultPath)
}

// NewFilePathFlagWithDefault returns a pflag.Value that must resolve
// to an existing regular file, falling back to defaultPath when never
// set.
func NewFilePathFlagWithDefault(defaultPath string) pflag.Value {
	return newPathFlag(KindFile, defaultPath)
}

// NewPathFlagWithDefault returns a pflag.Value that accepts either an
// existing file or directory, falling back to defaultPath when never
// set.
func NewPathFlagWithDefault(defaultPath string) pflag.Value {
	return newPathFlag(KindAny, defaultPath)
}

// String reports the flag's current value, or its fallback if Set has
// never been called.
func (f *pathFlag) String() string {
	if f.isSet {
		return f.resolved
	}
	return f.fallback
}

// Type names the flag's value type for pflag's usage output.
func (f *pathFlag) Type() string {
	return "path"
}

// Set resolves value against the flag's current resolution: an empty
// value is ignored (lets "-C a -C '' -C b" skip no-op repeats), an
// absolute value replaces it outright, and anything else is appended
// as a path segment onto it — so repeated relative "-C" flags walk
// further down from wherever the previous one landed.
func (f *pathFlag) Set(value string) error {
	if value == "" {
		return nil
	}

	next := value
	if !filepath.IsAbs(next) {
		next = filepath.Join(f.resolved, next)
	}
	abs, err := filepath.Abs(next)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", value, err)
	}

	info, statErr := os.Stat(abs)
	switch {
	case statErr == nil:
		if err := f.checkKind(abs, info); err != nil {
			return err
		}
	case errors.Is(statErr, os.ErrNotExist):
		if f.mustExist {
			return fmt.Errorf("%s: %w", abs, os.ErrNotExist)
		}
	default:
		return fmt.Errorf("checking %s: %w", abs, statErr)
	}

	f.resolved = abs
	f.isSet = true
	return nil
}

func (f *pathFlag) checkKind(path string, info os.FileInfo) error {
	switch f.kind {
	case KindFile:
		if info.IsDir() {
			return fmt.Errorf("%s: %w: is a directory", path, ErrWrongKind)
		}
	case KindDir:
		if !info.IsDir() {
			return fmt.Errorf("%s: %w: not a directory", path, ErrWrongKind)
		}
	case KindAny:
	default:
		return fmt.Errorf("%s: %w: unrecognized path kind %d", path, ErrWrongKind, f.kind)
	}
	return nil
}
