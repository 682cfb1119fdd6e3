package client

import (
	"errors"
	"strings"

	"github.com/magicrepos/magicrepos/hash"
	"github.com/magicrepos/magicrepos/refs"
	"github.com/magicrepos/magicrepos/repo"
	"github.com/magicrepos/magicrepos/wire"
	"golang.org/x/xerrors"
)

// ErrPullFailed wraps the Error payload text a server sends back for
// a rejected pull.
var ErrPullFailed = errors.New("pull failed")

// Pull fetches owner/repo's advertised refs and their reachable
// closure over t, stores the received objects, and records each
// advertised branch under refs/remotes/{remoteName}/{branch}. It
// returns the advertised refname->id map.
func Pull(t Transport, r *repo.Repository, owner, repoName, remoteName string) (map[string]hash.Oid, error) {
	if err := wire.WriteMessage(t, wire.Message{
		Type:    wire.TypeNegotiateRequest,
		Payload: wire.EncodeNegotiateRequest(wire.NegotiateRequest{Op: wire.OpPull, Owner: owner, Repo: repoName}),
	}); err != nil {
		return nil, xerrors.Errorf("could not send negotiate request: %w", err)
	}
	if err := expectNegotiateResponsePull(t); err != nil {
		return nil, err
	}

	msg, err := wire.ReadMessage(t)
	if err != nil {
		return nil, xerrors.Errorf("could not read advertisement: %w", err)
	}
	if msg.Type == wire.TypeError {
		return nil, xerrors.Errorf("%s: %w", msg.Payload, ErrPullFailed)
	}
	if msg.Type != wire.TypeRefAdvertisement {
		return nil, xerrors.Errorf("expected RefAdvertisement, got %s", msg.Type)
	}
	ad, err := wire.DecodeRefAdvertisement(msg.Payload)
	if err != nil {
		return nil, err
	}

	if len(ad.Refs) == 0 {
		if err := wire.WriteMessage(t, wire.Message{Type: wire.TypeRefWanted}); err != nil {
			return nil, xerrors.Errorf("could not send empty ref-wanted: %w", err)
		}
		if err := expectPackComplete(t); err != nil {
			return nil, err
		}
		return map[string]hash.Oid{}, nil
	}

	names := make([]string, 0, len(ad.Refs))
	for name := range ad.Refs {
		names = append(names, name)
	}
	if err := wire.WriteMessage(t, wire.Message{Type: wire.TypeRefWanted, Payload: wire.EncodeRefWanted(names)}); err != nil {
		return nil, xerrors.Errorf("could not send ref-wanted: %w", err)
	}

pullLoop:
	for {
		msg, err := wire.ReadMessage(t)
		if err != nil {
			return nil, xerrors.Errorf("could not read pull message: %w", err)
		}
		switch msg.Type {
		case wire.TypePackData:
			id, compressed, err := wire.DecodePackData(msg.Payload)
			if err != nil {
				return nil, err
			}
			if err := r.Objects.Write(id, compressed); err != nil {
				return nil, xerrors.Errorf("could not store object %s: %w", id, err)
			}
		case wire.TypePackComplete:
			break pullLoop
		case wire.TypeError:
			return nil, xerrors.Errorf("%s: %w", msg.Payload, ErrPullFailed)
		default:
			return nil, xerrors.Errorf("unexpected message type %s during pull", msg.Type)
		}
	}

	for name, id := range ad.Refs {
		b := strings.TrimPrefix(name, refs.HeadsPrefix)
		if b == name {
			continue // not a branch ref
		}
		if err := r.Refs.WriteRef("refs/remotes/"+remoteName+"/"+b, id); err != nil {
			return nil, xerrors.Errorf("could not record remote ref %s: %w", b, err)
		}
	}

	return ad.Refs, nil
}

func expectNegotiateResponsePull(t Transport) error {
	msg, err := wire.ReadMessage(t)
	if err != nil {
		return xerrors.Errorf("could not read negotiate response: %w", err)
	}
	if msg.Type == wire.TypeError {
		return xerrors.Errorf("%s: %w", msg.Payload, ErrPullFailed)
	}
	if msg.Type != wire.TypeNegotiateResponse {
		return xerrors.Errorf("expected NegotiateResponse, got %s", msg.Type)
	}
	if string(msg.Payload) != wire.ProtocolVersion {
		return xerrors.Errorf("server speaks %q: %w", msg.Payload, ErrVersionMismatch)
	}
	return nil
}

func expectPackComplete(t Transport) error {
	msg, err := wire.ReadMessage(t)
	if err != nil {
		return xerrors.Errorf("could not read pack-complete: %w", err)
	}
	if msg.Type != wire.TypePackComplete {
		return xerrors.Errorf("expected PackComplete, got %s", msg.Type)
	}
	return nil
}
