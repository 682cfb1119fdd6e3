package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "show the commit history from HEAD",
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		r, err := loadRepository(cfg)
		if err != nil {
			return err
		}
		commits, err := r.Log()
		if err != nil {
			return err
		}
		for _, c := range commits {
			fmt.Printf("commit %s\n", c.ID)
			fmt.Printf("Author: %s <%s>\n", c.Author.Name, c.Author.Email)
			fmt.Printf("\n    %s\n\n", c.Message)
		}
		return nil
	}

	return cmd
}
