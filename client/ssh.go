package client

import (
	"io"
	"os/exec"

	shellquote "github.com/kballard/go-shellquote"
	"golang.org/x/xerrors"
)

// remoteCommand is the command name sent, with owner and repo, as the
// SSH exec request. magicrepos-serve does not inspect the command; it
// reads owner and repo from the NegotiateRequest instead.
const remoteCommand = "magicrepos-serve"

// SSHProcess is the transport oracle wrapping a spawned `ssh` process:
// its stdin/stdout become the duplex stream, mirroring how real Git
// spawns git-receive-pack/git-upload-pack over SSH.
type SSHProcess struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
}

// DialSSH shells out to `ssh user@host <remote command>`, quoting the
// remote command line, and exposes the subprocess's stdin/stdout as
// the duplex stream.
func DialSSH(url URL) (*SSHProcess, error) {
	remote := shellquote.Join(remoteCommand, url.Owner, url.Repo)
	cmd := exec.Command("ssh", url.User+"@"+url.Host, remote)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, xerrors.Errorf("could not open ssh stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, xerrors.Errorf("could not open ssh stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, xerrors.Errorf("could not start ssh: %w", err)
	}

	return &SSHProcess{cmd: cmd, stdin: stdin, stdout: stdout}, nil
}

// Read implements io.Reader over the subprocess's stdout.
func (p *SSHProcess) Read(b []byte) (int, error) {
	return p.stdout.Read(b)
}

// Write implements io.Writer over the subprocess's stdin.
func (p *SSHProcess) Write(b []byte) (int, error) {
	return p.stdin.Write(b)
}

// Close closes stdin and waits for the subprocess to exit.
func (p *SSHProcess) Close() error {
	if err := p.stdin.Close(); err != nil {
		return err
	}
	return p.cmd.Wait()
}
