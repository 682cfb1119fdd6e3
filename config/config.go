// Package config supplies the config oracle the engine consumes for
// commit authorship: user.name and user.email, loaded from an
// INI-style file the way the teacher's config layer does.
package config

import (
	"gopkg.in/ini.v1"
)

// Provider reads user.name/user.email from a .gitconfig-style INI
// file (the [user] section only — no system/global aggregation, since
// that layering is part of the out-of-scope config module).
type Provider struct {
	name  string
	email string
}

// FromINI loads path via gopkg.in/ini.v1 and reads the [user]
// section's name/email keys.
func FromINI(path string) (*Provider, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	section := cfg.Section("user")
	return &Provider{
		name:  section.Key("name").String(),
		email: section.Key("email").String(),
	}, nil
}

// UserName returns the configured user.name, if any.
func (p *Provider) UserName() (string, bool) {
	if p.name == "" {
		return "", false
	}
	return p.name, true
}

// UserEmail returns the configured user.email, if any.
func (p *Provider) UserEmail() (string, bool) {
	if p.email == "" {
		return "", false
	}
	return p.email, true
}

// Static is a zero-value-friendly config oracle for tests and for
// callers who already have the values in hand.
type Static struct {
	Name  string
	Email string
}

// UserName returns s.Name.
func (s Static) UserName() (string, bool) {
	if s.Name == "" {
		return "", false
	}
	return s.Name, true
}

// UserEmail returns s.Email.
func (s Static) UserEmail() (string, bool) {
	if s.Email == "" {
		return "", false
	}
	return s.Email, true
}
