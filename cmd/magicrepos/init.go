package main

import (
	"fmt"
	"path/filepath"

	"github.com/magicrepos/magicrepos/internal/gitpath"
	"github.com/magicrepos/magicrepos/repo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newInitCmd(cfg *globalFlags) *cobra.Command {
	var bare bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "create an empty repository",
		Args:  cobra.MaximumNArgs(1),
	}
	cmd.Flags().BoolVar(&bare, "bare", false, "create a bare repository with no working tree")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		dir, err := cfg.workDir()
		if err != nil {
			return err
		}
		if len(args) > 0 {
			dir = args[0]
		}

		fsys := afero.NewOsFs()
		if bare {
			control := dir
			if _, err := repo.InitBare(fsys, control); err != nil {
				return err
			}
			fmt.Println("initialized bare repository in", control)
			return nil
		}

		control := filepath.Join(dir, gitpath.DotDirName)
		if _, err := repo.Init(fsys, dir, control); err != nil {
			return err
		}
		fmt.Println("initialized repository in", control)
		return nil
	}

	return cmd
}
