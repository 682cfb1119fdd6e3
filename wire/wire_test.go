package wire_test

import (
	"bytes"
	"testing"

	"github.com/magicrepos/magicrepos/wire"
	"github.com/stretchr/testify/require"
)

func TestWriteReadMessageRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	msg := wire.Message{Type: wire.TypeOk, Payload: []byte("all good")}
	require.NoError(t, wire.WriteMessage(&buf, msg))

	got, err := wire.ReadMessage(&buf)
	require.NoError(t, err)
	require.Equal(t, msg, got)
}

func TestWriteReadEmptyPayload(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, wire.WriteMessage(&buf, wire.Message{Type: wire.TypePackComplete}))

	got, err := wire.ReadMessage(&buf)
	require.NoError(t, err)
	require.Equal(t, wire.TypePackComplete, got.Type)
	require.Empty(t, got.Payload)
}

func TestReadMessageTruncatedFrameIsUnexpectedEOF(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, wire.WriteMessage(&buf, wire.Message{Type: wire.TypeOk, Payload: []byte("hello")}))
	truncated := buf.Bytes()[:buf.Len()-2]

	_, err := wire.ReadMessage(bytes.NewReader(truncated))
	require.ErrorIs(t, err, wire.ErrUnexpectedEOF)
}

func TestReadMessageImmediateEOFIsUnexpectedEOF(t *testing.T) {
	t.Parallel()

	_, err := wire.ReadMessage(bytes.NewReader(nil))
	require.ErrorIs(t, err, wire.ErrUnexpectedEOF)
}

func TestOnWireSizeMatchesHeaderPlusPayload(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	payload := []byte("01234567890123")
	require.NoError(t, wire.WriteMessage(&buf, wire.Message{Type: wire.TypeError, Payload: payload}))
	require.Equal(t, 4+1+len(payload), buf.Len())
}
