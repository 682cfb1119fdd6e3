package main

import (
	"os"

	"github.com/magicrepos/magicrepos/internal/pathutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// globalFlags holds the persistent -C flag shared by every subcommand.
type globalFlags struct {
	dir pflag.Value
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "magicrepos",
		Short:         "a content-addressed version control engine",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	cfg := &globalFlags{dir: pathutil.NewDirPathFlagWithDefault(cwd)}
	cmd.PersistentFlags().VarP(cfg.dir, "C", "C", "run as if started in the given directory instead of the current working directory")

	cmd.AddCommand(
		newInitCmd(cfg),
		newAddCmd(cfg),
		newCommitCmd(cfg),
		newStatusCmd(cfg),
		newLogCmd(cfg),
		newDiffCmd(cfg),
		newBranchCmd(cfg),
		newCheckoutCmd(cfg),
		newResetCmd(cfg),
		newPushCmd(cfg),
		newPullCmd(cfg),
	)

	return cmd
}

// workDir resolves cfg.dir against the process's current directory.
func (cfg *globalFlags) workDir() (string, error) {
	return cfg.dir.String(), nil
}
