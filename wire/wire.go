// Package wire implements the framed message codec that carries
// push/pull/pr sessions over an opaque byte-stream transport: a
// 4-byte big-endian length, a 1-byte type, then that many bytes of
// payload. length excludes the type byte and covers only the payload,
// so a frame's on-wire size is 4 + 1 + len(payload).
package wire

import (
	"encoding/binary"
	"errors"
	"io"

	"golang.org/x/xerrors"
)

// ErrUnexpectedEOF is returned when the transport ends mid-frame: any
// short read returning zero bytes before a full frame is consumed.
var ErrUnexpectedEOF = errors.New("unexpected eof")

// ErrProtocolViolation is returned by the payload decoders for a
// malformed message: a NegotiateRequest payload with fewer than three
// NUL-separated fields, or a malformed ref advertisement line, ref
// update, or pack data id. ReadMessage does not check the type byte.
var ErrProtocolViolation = errors.New("protocol violation")

// Type is the 1-byte message type discriminant.
type Type byte

// Message types, per the wire enumeration.
const (
	TypeNegotiateRequest  Type = 1
	TypeNegotiateResponse Type = 2
	TypeRefAdvertisement  Type = 3
	TypeRefUpdate         Type = 4
	TypeRefWanted         Type = 5
	TypePackData          Type = 6
	TypePackComplete      Type = 7
	TypeOk                Type = 8
	TypeError             Type = 9
)

// String names a message type for logging.
func (t Type) String() string {
	switch t {
	case TypeNegotiateRequest:
		return "NegotiateRequest"
	case TypeNegotiateResponse:
		return "NegotiateResponse"
	case TypeRefAdvertisement:
		return "RefAdvertisement"
	case TypeRefUpdate:
		return "RefUpdate"
	case TypeRefWanted:
		return "RefWanted"
	case TypePackData:
		return "PackData"
	case TypePackComplete:
		return "PackComplete"
	case TypeOk:
		return "Ok"
	case TypeError:
		return "Error"
	default:
		return "Unknown"
	}
}

// ProtocolVersion is the only version this codec currently speaks.
const ProtocolVersion = "v1"

// Message is one frame: a type plus its raw payload.
type Message struct {
	Type    Type
	Payload []byte
}

// WriteMessage encodes and writes one frame to w.
func WriteMessage(w io.Writer, msg Message) error {
	var header [5]byte
	binary.BigEndian.PutUint32(header[0:4], uint32(len(msg.Payload)))
	header[4] = byte(msg.Type)
	if _, err := w.Write(header[:]); err != nil {
		return xerrors.Errorf("could not write frame header: %w", err)
	}
	if len(msg.Payload) == 0 {
		return nil
	}
	if _, err := w.Write(msg.Payload); err != nil {
		return xerrors.Errorf("could not write frame payload: %w", err)
	}
	return nil
}

// ReadMessage reads one full frame from r. A short read returning
// zero bytes before the frame is fully consumed is reported as
// ErrUnexpectedEOF rather than bubbling io.EOF, since within a session
// an EOF can only legally occur between frames.
func ReadMessage(r io.Reader) (Message, error) {
	var header [5]byte
	if err := readFull(r, header[:]); err != nil {
		return Message{}, err
	}
	length := binary.BigEndian.Uint32(header[0:4])
	typ := Type(header[4])

	payload := make([]byte, length)
	if length > 0 {
		if err := readFull(r, payload); err != nil {
			return Message{}, err
		}
	}
	return Message{Type: typ, Payload: payload}, nil
}

// readFull reads exactly len(buf) bytes, translating any EOF (full or
// partial) encountered before buf is filled into ErrUnexpectedEOF.
func readFull(r io.Reader, buf []byte) error {
	_, err := io.ReadFull(r, buf)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return xerrors.Errorf("%w", ErrUnexpectedEOF)
		}
		return xerrors.Errorf("could not read frame: %w", err)
	}
	return nil
}
