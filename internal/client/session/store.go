package session

import (
	"encoding/json"

	"github.com/dmitrijs2005/vendorconsole/internal/client/models"
)

const principalKey = "user"

// Store is the single holder of the current Principal.
//
// Only the login flow writes it; the route guard, logout and an expired
// API session clear it. Everything else reads.
type Store struct {
	storage Storage
}

// NewStore returns a Store over storage.
func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Set overwrites the current Principal.
func (s *Store) Set(p models.Principal) {
	// Principal has no unmarshalable fields
	b, _ := json.Marshal(p)
	s.storage.SetItem(principalKey, string(b))
}

// Get returns the current Principal. Missing or malformed content reads as
// absent.
func (s *Store) Get() (*models.Principal, bool) {
	raw, ok := s.storage.GetItem(principalKey)
	if !ok || raw == "" || raw == "null" {
		return nil, false
	}

	var p models.Principal
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, false
	}
	return &p, true
}

// Clear removes the Principal.
func (s *Store) Clear() {
	s.storage.RemoveItem(principalKey)
}
