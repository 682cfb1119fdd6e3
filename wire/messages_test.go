package wire_test

import (
	"testing"

	"github.com/magicrepos/magicrepos/hash"
	"github.com/magicrepos/magicrepos/wire"
	"github.com/stretchr/testify/require"
)

func TestNegotiateRequestRoundTrip(t *testing.T) {
	t.Parallel()

	n := wire.NegotiateRequest{Op: wire.OpPush, Owner: "ada", Repo: "engine"}
	got, err := wire.DecodeNegotiateRequest(wire.EncodeNegotiateRequest(n))
	require.NoError(t, err)
	require.Equal(t, n, got)
}

func TestNegotiateRequestTooFewFields(t *testing.T) {
	t.Parallel()

	_, err := wire.DecodeNegotiateRequest([]byte("push\x00ada"))
	require.ErrorIs(t, err, wire.ErrProtocolViolation)
}

func TestRefAdvertisementRoundTrip(t *testing.T) {
	t.Parallel()

	ad := wire.RefAdvertisement{Refs: map[string]hash.Oid{
		"HEAD":            hash.Sum([]byte("a")),
		"refs/heads/main": hash.Sum([]byte("b")),
	}}
	got, err := wire.DecodeRefAdvertisement(wire.EncodeRefAdvertisement(ad))
	require.NoError(t, err)
	require.Equal(t, ad.Refs, got.Refs)
}

func TestRefAdvertisementEmpty(t *testing.T) {
	t.Parallel()

	got, err := wire.DecodeRefAdvertisement(nil)
	require.NoError(t, err)
	require.Empty(t, got.Refs)
}

func TestRefUpdateRoundTrip(t *testing.T) {
	t.Parallel()

	u := wire.RefUpdate{RefName: "refs/heads/main", ID: hash.Sum([]byte("x"))}
	got, err := wire.DecodeRefUpdate(wire.EncodeRefUpdate(u))
	require.NoError(t, err)
	require.Equal(t, u, got)
}

func TestRefWantedRoundTrip(t *testing.T) {
	t.Parallel()

	names := []string{"refs/heads/main", "refs/heads/dev"}
	require.Equal(t, names, wire.DecodeRefWanted(wire.EncodeRefWanted(names)))
	require.Nil(t, wire.DecodeRefWanted(wire.EncodeRefWanted(nil)))
}

func TestPackDataRoundTrip(t *testing.T) {
	t.Parallel()

	id := hash.Sum([]byte("payload"))
	compressed := []byte{0x01, 0x02, 0x03}
	gotID, gotBytes, err := wire.DecodePackData(wire.EncodePackData(id, compressed))
	require.NoError(t, err)
	require.Equal(t, id, gotID)
	require.Equal(t, compressed, gotBytes)
}
