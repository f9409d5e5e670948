// Package store persists the endpoint and bearer token between runs.
package store

import (
	"fmt"

	"devconsole/internal/model"
)

const (
	KeyEndpoint = "apiEndpoint"
	KeyToken    = "apiToken"
)

// KV is a durable string key-value store.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Store reads and writes credentials through a KV.
type Store struct {
	kv KV
}

func New(kv KV) *Store {
	return &Store{kv: kv}
}

// Save overwrites both slots. There is no validation.
func (s *Store) Save(endpoint, token string) error {
	if err := s.kv.Set(KeyEndpoint, endpoint); err != nil {
		return fmt.Errorf("save endpoint: %w", err)
	}
	if err := s.kv.Set(KeyToken, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Load returns the saved credentials. An unset or empty endpoint falls back
// to selected; an unset token has no fallback.
func (s *Store) Load(selected string) model.Credentials {
	c := model.Credentials{Endpoint: selected}
	if ep, ok := s.kv.Get(KeyEndpoint); ok && ep != "" {
		c.Endpoint = ep
	}
	if tok, ok := s.kv.Get(KeyToken); ok {
		c.Token = tok
		c.HasToken = true
	}
	return c
}

// SavedEndpoint returns the persisted endpoint, if any.
func (s *Store) SavedEndpoint() (string, bool) {
	ep, ok := s.kv.Get(KeyEndpoint)
	if !ok || ep == "" {
		return "", false
	}
	return ep, true
}

// SetEndpoint switches endpoint and keeps whatever token is saved. It does
// not create a token slot when none exists.
func (s *Store) SetEndpoint(endpoint string) error {
	tok, ok := s.kv.Get(KeyToken)
	if !ok {
		if err := s.kv.Set(KeyEndpoint, endpoint); err != nil {
			return fmt.Errorf("save endpoint: %w", err)
		}
		return nil
	}
	return s.Save(endpoint, tok)
}
