package main

import (
	"fmt"

	"github.com/magicrepos/magicrepos/client"
	"github.com/spf13/cobra"
)

func newPullCmd(cfg *globalFlags) *cobra.Command {
	var remoteName string

	cmd := &cobra.Command{
		Use:   "pull <user@host:owner/repo>",
		Short: "fetch a remote's advertised refs and their reachable closure",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().StringVar(&remoteName, "remote", "origin", "name to record the fetched refs under (refs/remotes/<name>/...)")

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

		refMap, err := client.Pull(ssh, r, url.Owner, url.Repo, remoteName)
		if err != nil {
			return err
		}
		for name, id := range refMap {
			fmt.Printf("%s -> %s\n", name, id)
		}
		return nil
	}

	return cmd
}
