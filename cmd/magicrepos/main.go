// Command magicrepos is the porcelain CLI over the repository facade:
// init, add, commit, status, log, diff, branch, checkout, reset, push
// and pull, each a thin cobra wrapper around package repo/client.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
