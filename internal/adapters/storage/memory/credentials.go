// Package memory es el storage in-memory de la consola (tests/dev).
package memory

import (
	"sync"

	"pet-admin-console/internal/ports/auth"
)

type CredentialStore struct {
	mu       sync.Mutex
	token    string
	userName string
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{}
}

func (s *CredentialStore) Save(token, userName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.userName = token, userName
	return nil
}

func (s *CredentialStore) Load() (string, string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.userName, s.token != "", nil
}

func (s *CredentialStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.userName = "", ""
	return nil
}

var _ auth.TokenStore = (*CredentialStore)(nil)
