package objstore

import (
	"bytes"
	"compress/flate"
	"io"

	"golang.org/x/xerrors"
)

// deferClose closes c, folding its error into *err only when *err is
// still nil, so a write failure is never masked by a close failure
// but a close failure on an otherwise-successful stream still surfaces.
func deferClose(c io.Closer, err *error) {
	if closeErr := c.Close(); *err == nil && closeErr != nil {
		*err = xerrors.Errorf("could not close deflate stream: %w", closeErr)
	}
}

// deflate compresses b using raw DEFLATE (no zlib wrapper).
func deflate(b []byte) (out []byte, err error) {
	buf := new(bytes.Buffer)
	w, err := flate.NewWriter(buf, flate.DefaultCompression)
	if err != nil {
		return nil, xerrors.Errorf("could not create deflate writer: %w", err)
	}
	// The writer emits its final block only on Close, so the output is
	// taken from buf after the deferred close has run.
	defer func() {
		deferClose(w, &err)
		if err != nil {
			out = nil
			return
		}
		out = buf.Bytes()
	}()

	if _, err = w.Write(b); err != nil {
		return nil, xerrors.Errorf("could not write deflate stream: %w", err)
	}
	return nil, nil
}

// inflate decompresses a raw DEFLATE stream.
func inflate(b []byte) (out []byte, err error) {
	r := flate.NewReader(bytes.NewReader(b))
	defer deferClose(r, &err)

	out, err = io.ReadAll(r)
	if err != nil {
		return nil, xerrors.Errorf("could not read deflate stream: %w", err)
	}
	return out, nil
}
