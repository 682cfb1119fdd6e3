package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/magicrepos/magicrepos/config"
	"github.com/magicrepos/magicrepos/ignore"
	"github.com/magicrepos/magicrepos/repo"
	"github.com/spf13/afero"
)

const ignoreFileName = ".magicreposignore"

// loadRepository opens the repository discovered from cfg's working
// directory and attaches the config/ignore oracles found on disk.
func loadRepository(cfg *globalFlags) (*repo.Repository, error) {
	dir, err := cfg.workDir()
	if err != nil {
		return nil, err
	}

	fsys := afero.NewOsFs()
	r, err := repo.Open(fsys, dir)
	if err != nil {
		return nil, err
	}

	if c, err := config.FromINI(filepath.Join(r.Control(), "config")); err == nil {
		r.SetConfig(c)
	}

	if raw, err := afero.ReadFile(fsys, filepath.Join(r.WorkTree(), ignoreFileName)); err == nil {
		r.SetIgnore(ignore.New(strings.Split(string(raw), "\n")))
	} else {
		r.SetIgnore(ignore.New(nil))
	}

	return r, nil
}

func changeKindLabel(k repo.ChangeKind) string {
	switch k {
	case repo.Added:
		return "added"
	case repo.Modified:
		return "modified"
	case repo.Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

func printChanges(label string, changes []repo.Change) {
	if len(changes) == 0 {
		return
	}
	fmt.Println(label + ":")
	for _, c := range changes {
		fmt.Printf("  %s: %s\n", changeKindLabel(c.Kind), c.Path)
	}
}
