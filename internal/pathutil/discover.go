package pathutil

import (
	"errors"
	"path/filepath"

	"github.com/magicrepos/magicrepos/internal/gitpath"
	"github.com/spf13/afero"
)

// ErrNoRepo is returned when no control directory is found between a
// starting path and the filesystem root.
var ErrNoRepo = errors.New("not a magicrepos repository")

// DiscoverControlDir walks start and its parent directories looking
// for a ".magicrepos" control directory, returning the working-tree
// root and the control directory's absolute path. It fails with
// ErrNoRepo once the filesystem root is reached without finding one.
func DiscoverControlDir(fsys afero.Fs, start string) (workTree, controlDir string, err error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", "", err
	}

	for {
		candidate := filepath.Join(dir, gitpath.DotDirName)
		if isDir, statErr := afero.DirExists(fsys, candidate); statErr == nil && isDir {
			return dir, candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", ErrNoRepo
		}
		dir = parent
	}
}
