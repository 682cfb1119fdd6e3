package main

import (
	"fmt"

	"github.com/magicrepos/magicrepos/diff"
	"github.com/spf13/cobra"
)

func newDiffCmd(cfg *globalFlags) *cobra.Command {
	var staged bool

	cmd := &cobra.Command{
		Use:   "diff <path>",
		Short: "show the unified diff for a single path",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().BoolVar(&staged, "staged", false, "diff HEAD against the index instead of the working tree against the index")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		r, err := loadRepository(cfg)
		if err != nil {
			return err
		}

		var result diff.Result
		if staged {
			result, err = r.DiffStaged(args[0])
		} else {
			result, err = r.DiffWorktree(args[0])
		}
		if err != nil {
			return err
		}

		printDiff(result)
		return nil
	}

	return cmd
}

func printDiff(result diff.Result) {
	for _, h := range result.Hunks {
		fmt.Printf("@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
		for _, l := range h.Lines {
			switch l.Kind {
			case diff.Added:
				fmt.Println("+" + l.Text)
			case diff.Removed:
				fmt.Println("-" + l.Text)
			default:
				fmt.Println(" " + l.Text)
			}
		}
	}
}
