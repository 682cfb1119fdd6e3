package server

import (
	"io"

	"github.com/magicrepos/magicrepos/hash"
	"github.com/magicrepos/magicrepos/reach"
	"github.com/magicrepos/magicrepos/refs"
	"github.com/magicrepos/magicrepos/repo"
	"github.com/magicrepos/magicrepos/wire"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// AuthOracle authorizes a caller's read/write access, per spec §6.
type AuthOracle interface {
	CanRead(user string) bool
	CanWrite(user, owner, repoName string) bool
}

// Transport is the opaque duplex byte-stream a session runs over.
type Transport interface {
	io.Reader
	io.Writer
}

// Session dispatches one negotiate/push/pull/pr cycle, per spec
// §4.9's server state machine.
type Session struct {
	Repos *BareRepoStore
	Auth  AuthOracle
	Log   *logrus.Logger
}

// NewSession returns a Session with a default (non-nil) logger if log
// is nil.
func NewSession(repos *BareRepoStore, auth AuthOracle, log *logrus.Logger) *Session {
	if log == nil {
		log = logrus.New()
	}
	return &Session{Repos: repos, Auth: auth, Log: log}
}

func sendError(t Transport, format string, args ...interface{}) error {
	msg := xerrors.Errorf(format, args...).Error()
	return wire.WriteMessage(t, wire.Message{Type: wire.TypeError, Payload: []byte(msg)})
}

// Run services one connection, identified by identity (the
// caller-supplied username), to completion.
func (s *Session) Run(t Transport, identity string) error {
	msg, err := wire.ReadMessage(t)
	if err != nil {
		return xerrors.Errorf("could not read negotiate request: %w", err)
	}
	if msg.Type != wire.TypeNegotiateRequest {
		return sendError(t, "expected NegotiateRequest, got %s", msg.Type)
	}
	req, err := wire.DecodeNegotiateRequest(msg.Payload)
	if err != nil {
		return sendError(t, "%w", err)
	}

	log := s.Log.WithFields(logrus.Fields{"user": identity, "op": req.Op, "owner": req.Owner, "repo": req.Repo})

	switch req.Op {
	case wire.OpPush:
		if !s.Auth.CanWrite(identity, req.Owner, req.Repo) {
			log.Warn("push denied")
			return sendError(t, "%s: push denied", identity)
		}
	case wire.OpPull, wire.OpPr:
		if !s.Auth.CanRead(identity) {
			log.Warn("read denied")
			return sendError(t, "%s: read denied", identity)
		}
	default:
		return sendError(t, "unknown op %q", req.Op)
	}

	var r *repo.Repository
	if s.Repos.Exists(req.Owner, req.Repo) {
		r, err = s.Repos.Open(req.Owner, req.Repo)
	} else if req.Op == wire.OpPush {
		r, err = s.Repos.Create(req.Owner, req.Repo)
	} else {
		return sendError(t, "%s/%s: not found", req.Owner, req.Repo)
	}
	if err != nil {
		return sendError(t, "%w", err)
	}

	if err := wire.WriteMessage(t, wire.Message{Type: wire.TypeNegotiateResponse, Payload: []byte(wire.ProtocolVersion)}); err != nil {
		return xerrors.Errorf("could not send negotiate response: %w", err)
	}

	switch req.Op {
	case wire.OpPush:
		log.Info("push session started")
		return s.servePush(t, r)
	case wire.OpPull:
		log.Info("pull session started")
		return s.servePull(t, r)
	default:
		return sendError(t, "pr sessions are not implemented by the core engine")
	}
}

func advertisement(r *repo.Repository) (wire.RefAdvertisement, error) {
	ad := wire.RefAdvertisement{Refs: map[string]hash.Oid{}}
	if id, ok, err := r.Refs.ResolveHead(); err != nil {
		return ad, err
	} else if ok {
		ad.Refs[refs.Head] = id
	}
	branches, err := r.Refs.ListBranches()
	if err != nil {
		return ad, err
	}
	for _, b := range branches {
		id, err := r.Refs.ResolveBranch(b)
		if err != nil {
			return ad, err
		}
		ad.Refs[refs.HeadsPrefix+b] = id
	}
	return ad, nil
}

func (s *Session) servePush(t Transport, r *repo.Repository) error {
	ad, err := advertisement(r)
	if err != nil {
		return sendError(t, "%w", err)
	}
	if err := wire.WriteMessage(t, wire.Message{Type: wire.TypeRefAdvertisement, Payload: wire.EncodeRefAdvertisement(ad)}); err != nil {
		return xerrors.Errorf("could not send advertisement: %w", err)
	}

	var updates []wire.RefUpdate
loop:
	for {
		msg, err := wire.ReadMessage(t)
		if err != nil {
			return xerrors.Errorf("could not read push message: %w", err)
		}
		switch msg.Type {
		case wire.TypeRefUpdate:
			u, err := wire.DecodeRefUpdate(msg.Payload)
			if err != nil {
				return sendError(t, "%w", err)
			}
			updates = append(updates, u)
		case wire.TypePackData:
			id, compressed, err := wire.DecodePackData(msg.Payload)
			if err != nil {
				return sendError(t, "%w", err)
			}
			if err := r.Objects.Write(id, compressed); err != nil {
				return sendError(t, "could not store object %s: %w", id, err)
			}
		case wire.TypePackComplete:
			break loop
		default:
			return sendError(t, "unexpected message type %s during push", msg.Type)
		}
	}

	for _, u := range updates {
		if err := r.Refs.WriteRef(u.RefName, u.ID); err != nil {
			return sendError(t, "could not update %s: %w", u.RefName, err)
		}
	}

	return wire.WriteMessage(t, wire.Message{Type: wire.TypeOk, Payload: []byte("push accepted")})
}

func (s *Session) servePull(t Transport, r *repo.Repository) error {
	ad, err := advertisement(r)
	if err != nil {
		return sendError(t, "%w", err)
	}
	if err := wire.WriteMessage(t, wire.Message{Type: wire.TypeRefAdvertisement, Payload: wire.EncodeRefAdvertisement(ad)}); err != nil {
		return xerrors.Errorf("could not send advertisement: %w", err)
	}

	msg, err := wire.ReadMessage(t)
	if err != nil {
		return xerrors.Errorf("could not read ref-wanted: %w", err)
	}
	if msg.Type != wire.TypeRefWanted {
		return sendError(t, "expected RefWanted, got %s", msg.Type)
	}
	wanted := wire.DecodeRefWanted(msg.Payload)

	set := map[hash.Oid]bool{}
	for _, name := range wanted {
		id, ok, err := r.Refs.Resolve(name)
		if err != nil {
			return sendError(t, "could not resolve %s: %w", name, err)
		}
		if !ok {
			continue
		}
		if err := reach.Collect(r.Objects, id, set); err != nil {
			return sendError(t, "%w", err)
		}
	}

	for id := range set {
		compressed, err := r.Objects.ReadCompressed(id)
		if err != nil {
			return sendError(t, "%w", err)
		}
		if err := wire.WriteMessage(t, wire.Message{Type: wire.TypePackData, Payload: wire.EncodePackData(id, compressed)}); err != nil {
			return xerrors.Errorf("could not send pack data: %w", err)
		}
	}

	return wire.WriteMessage(t, wire.Message{Type: wire.TypePackComplete})
}
