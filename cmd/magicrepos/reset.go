package main

import (
	"github.com/magicrepos/magicrepos/repo"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

func newResetCmd(cfg *globalFlags) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "reset <commit-ish>",
		Short: "move HEAD and, depending on --mode, the index and working tree",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().StringVar(&mode, "mode", "mixed", "one of soft, mixed, hard")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		r, err := loadRepository(cfg)
		if err != nil {
			return err
		}

		var m repo.ResetMode
		switch mode {
		case "soft":
			m = repo.ResetSoft
		case "mixed":
			m = repo.ResetMixed
		case "hard":
			m = repo.ResetHard
		default:
			return xerrors.Errorf("unknown reset mode %q", mode)
		}

		return r.Reset(args[0], m)
	}

	return cmd
}
