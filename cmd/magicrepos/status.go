package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "show staged, unstaged, and untracked changes",
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		r, err := loadRepository(cfg)
		if err != nil {
			return err
		}
		st, err := r.Status()
		if err != nil {
			return err
		}

		printChanges("staged", st.Staged)
		printChanges("unstaged", st.Unstaged)
		if len(st.Untracked) > 0 {
			fmt.Println("untracked:")
			for _, p := range st.Untracked {
				fmt.Println("  " + p)
			}
		}
		return nil
	}

	return cmd
}
