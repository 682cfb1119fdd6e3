package client

import "io"

// Pipe is an in-memory duplex transport: two connected
// io.ReadWriteClosers, suitable as the transport oracle in tests
// (spec.md §8 scenario 6 exercises exactly this).
type Pipe struct {
	io.Reader
	io.Writer
	closers []io.Closer
}

// NewPipePair returns two Pipes wired so that writes to one side are
// readable on the other.
func NewPipePair() (a, b *Pipe) {
	arToB, bwFromA := io.Pipe()
	brToA, awFromB := io.Pipe()
	a = &Pipe{Reader: brToA, Writer: bwFromA, closers: []io.Closer{brToA, bwFromA}}
	b = &Pipe{Reader: arToB, Writer: awFromB, closers: []io.Closer{arToB, awFromB}}
	return a, b
}

// Close closes both ends of this side of the pipe.
func (p *Pipe) Close() error {
	var firstErr error
	for _, c := range p.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
