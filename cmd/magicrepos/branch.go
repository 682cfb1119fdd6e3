package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBranchCmd(cfg *globalFlags) *cobra.Command {
	var del string

	cmd := &cobra.Command{
		Use:   "branch [name]",
		Short: "list, create, or delete branches",
		Args:  cobra.MaximumNArgs(1),
	}
	cmd.Flags().StringVarP(&del, "delete", "d", "", "delete the named branch")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		r, err := loadRepository(cfg)
		if err != nil {
			return err
		}

		if del != "" {
			return r.DeleteBranch(del)
		}
		if len(args) == 1 {
			return r.CreateBranch(args[0])
		}

		branches, err := r.ListBranches()
		if err != nil {
			return err
		}
		current, onBranch, err := r.CurrentBranch()
		if err != nil {
			return err
		}
		for _, b := range branches {
			marker := "  "
			if onBranch && b == current {
				marker = "* "
			}
			fmt.Println(marker + b)
		}
		return nil
	}

	return cmd
}
