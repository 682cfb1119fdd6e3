package main

import (
	"github.com/magicrepos/magicrepos/client"
	"github.com/spf13/cobra"
)

func newPushCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push <user@host:owner/repo>",
		Short: "push every local branch and its reachable closure to a remote",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		r, err := loadRepository(cfg)
		if err != nil {
			return err
		}
		url, err := client.ParseURL(args[0])
		if err != nil {
			return err
		}

		ssh, err := client.DialSSH(url)
		if err != nil {
			return err
		}
		defer ssh.Close()

		return client.Push(ssh, r, url.Owner, url.Repo)
	}

	return cmd
}
