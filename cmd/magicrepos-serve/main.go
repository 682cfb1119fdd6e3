// Command magicrepos-serve is the SSH-facing half of the bare-repo
// server: it accepts a connection, treats the session's Read/Write
// stream as the opaque transport spec.md's session protocol runs over,
// and dispatches it to server.Session, using the authenticated SSH
// username as the caller-supplied identity string.
package main

import (
	"flag"
	"os"

	"github.com/gliderlabs/ssh"
	"github.com/magicrepos/magicrepos/auth"
	"github.com/magicrepos/magicrepos/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

func main() {
	addr := flag.String("listen", ":2222", "address to listen on")
	root := flag.String("root", "/srv/magicrepos", "directory holding every owner/repo.mr bare repository")
	flag.Parse()

	log := logrus.New()

	repos := server.NewBareRepoStore(afero.NewOsFs(), *root)
	authOracle := auth.NewStatic()
	sess := server.NewSession(repos, authOracle, log)

	srv := &ssh.Server{
		Addr: *addr,
		Handler: func(s ssh.Session) {
			log.WithField("user", s.User()).Info("session opened")
			if err := sess.Run(s, s.User()); err != nil {
				log.WithError(err).Warn("session ended with error")
				_ = s.Exit(1)
				return
			}
			_ = s.Exit(0)
		},
		// Every key is accepted; authorization happens per-namespace
		// inside server.Session via the auth oracle, keyed on username.
		PublicKeyHandler: func(ctx ssh.Context, key ssh.PublicKey) bool {
			return true
		},
	}

	log.WithField("addr", *addr).Info("magicrepos-serve listening")
	if err := srv.ListenAndServe(); err != nil {
		log.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}
