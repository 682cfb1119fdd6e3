package main

import (
	"github.com/spf13/cobra"
)

func newAddCmd(cfg *globalFlags) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "add [paths...]",
		Short: "stage working-tree files",
	}
	cmd.Flags().BoolVarP(&all, "all", "A", false, "stage every tracked and untracked file in the working tree")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		r, err := loadRepository(cfg)
		if err != nil {
			return err
		}

		if all {
			return r.StageAll()
		}
		for _, p := range args {
			if err := r.Stage(p); err != nil {
				return err
			}
		}
		return nil
	}

	return cmd
}
