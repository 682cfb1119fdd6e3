package client

import (
	"errors"
	"io"

	"github.com/magicrepos/magicrepos/hash"
	"github.com/magicrepos/magicrepos/reach"
	"github.com/magicrepos/magicrepos/refs"
	"github.com/magicrepos/magicrepos/repo"
	"github.com/magicrepos/magicrepos/wire"
	"golang.org/x/xerrors"
)

// ErrPushFailed wraps the Error payload text a server sends back for
// a rejected push.
var ErrPushFailed = errors.New("push failed")

// ErrVersionMismatch is returned when the server's NegotiateResponse
// names a protocol version this client does not speak.
var ErrVersionMismatch = errors.New("protocol version mismatch")

// Transport is the duplex stream a push or pull runs over.
type Transport interface {
	io.Reader
	io.Writer
}

// Push sends every local branch and the reachable closure of its tip
// to owner/repo over t, per spec.md §4.9's client push state machine.
// It sends the entire local closure without subtracting what the
// remote already advertises (spec §9(b)), which is correct but
// bandwidth-wasteful, exactly as the reference implementation does.
func Push(t Transport, r *repo.Repository, owner, repoName string) error {
	if err := wire.WriteMessage(t, wire.Message{
		Type:    wire.TypeNegotiateRequest,
		Payload: wire.EncodeNegotiateRequest(wire.NegotiateRequest{Op: wire.OpPush, Owner: owner, Repo: repoName}),
	}); err != nil {
		return xerrors.Errorf("could not send negotiate request: %w", err)
	}

	if err := expectNegotiateResponse(t); err != nil {
		return err
	}

	msg, err := wire.ReadMessage(t)
	if err != nil {
		return xerrors.Errorf("could not read advertisement: %w", err)
	}
	if msg.Type == wire.TypeError {
		return xerrors.Errorf("%s: %w", msg.Payload, ErrPushFailed)
	}
	if msg.Type != wire.TypeRefAdvertisement {
		return xerrors.Errorf("expected RefAdvertisement, got %s", msg.Type)
	}
	if _, err := wire.DecodeRefAdvertisement(msg.Payload); err != nil {
		return err
	}

	branches, err := r.Refs.ListBranches()
	if err != nil {
		return xerrors.Errorf("could not list local branches: %w", err)
	}

	var updates []wire.RefUpdate
	set := map[hash.Oid]bool{}
	for _, b := range branches {
		id, err := r.Refs.ResolveBranch(b)
		if err != nil {
			return xerrors.Errorf("could not resolve branch %s: %w", b, err)
		}
		updates = append(updates, wire.RefUpdate{RefName: refs.HeadsPrefix + b, ID: id})
		if err := reach.Collect(r.Objects, id, set); err != nil {
			return xerrors.Errorf("could not collect closure of %s: %w", b, err)
		}
	}

	for _, u := range updates {
		if err := wire.WriteMessage(t, wire.Message{Type: wire.TypeRefUpdate, Payload: wire.EncodeRefUpdate(u)}); err != nil {
			return xerrors.Errorf("could not send ref update: %w", err)
		}
	}

	for id := range set {
		compressed, err := r.Objects.ReadCompressed(id)
		if err != nil {
			return xerrors.Errorf("could not read object %s: %w", id, err)
		}
		if err := wire.WriteMessage(t, wire.Message{Type: wire.TypePackData, Payload: wire.EncodePackData(id, compressed)}); err != nil {
			return xerrors.Errorf("could not send pack data: %w", err)
		}
	}
	if err := wire.WriteMessage(t, wire.Message{Type: wire.TypePackComplete}); err != nil {
		return xerrors.Errorf("could not send pack complete: %w", err)
	}

	msg, err = wire.ReadMessage(t)
	if err != nil {
		return xerrors.Errorf("could not read push result: %w", err)
	}
	switch msg.Type {
	case wire.TypeOk:
		return nil
	case wire.TypeError:
		return xerrors.Errorf("%s: %w", msg.Payload, ErrPushFailed)
	default:
		return xerrors.Errorf("unexpected message type %s after push", msg.Type)
	}
}

func expectNegotiateResponse(t Transport) error {
	msg, err := wire.ReadMessage(t)
	if err != nil {
		return xerrors.Errorf("could not read negotiate response: %w", err)
	}
	if msg.Type == wire.TypeError {
		return xerrors.Errorf("%s: %w", msg.Payload, ErrPushFailed)
	}
	if msg.Type != wire.TypeNegotiateResponse {
		return xerrors.Errorf("expected NegotiateResponse, got %s", msg.Type)
	}
	if string(msg.Payload) != wire.ProtocolVersion {
		return xerrors.Errorf("server speaks %q: %w", msg.Payload, ErrVersionMismatch)
	}
	return nil
}
