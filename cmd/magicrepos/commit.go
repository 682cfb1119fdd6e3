package main

import (
	"fmt"

	"github.com/magicrepos/magicrepos/objstore"
	"github.com/spf13/cobra"
)

func newCommitCmd(cfg *globalFlags) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "record the staged changes",
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	_ = cmd.MarkFlagRequired("message")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		r, err := loadRepository(cfg)
		if err != nil {
			return err
		}
		id, err := r.Commit(message, objstore.Signature{})
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	}

	return cmd
}
