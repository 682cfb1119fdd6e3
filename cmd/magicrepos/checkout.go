package main

import (
	"github.com/spf13/cobra"
)

func newCheckoutCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkout <branch>",
		Short: "switch the working tree and HEAD to a branch",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		r, err := loadRepository(cfg)
		if err != nil {
			return err
		}
		return r.CheckoutBranch(args[0])
	}

	return cmd
}
