package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// SessionStore persists an issued token pair across app launches.
type SessionStore interface {
	Save(pair *TokenPair) error
	Load() (*TokenPair, error)
	Clear() error
}

// FileSessionStore keeps the token pair as a JSON file on disk, the moral
// equivalent of the platform keychain.
type FileSessionStore struct {
	path string
}

// NewFileSessionStore creates a store writing to path.
func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{path: path}
}

// Save writes the token pair, creating parent directories as needed.
func (s *FileSessionStore) Save(pair *TokenPair) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Load reads the persisted token pair, returning nil when none exists.
func (s *FileSessionStore) Load() (*TokenPair, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	var pair TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		// a corrupt session file is treated as signed out
		return nil, nil
	}
	return &pair, nil
}

// Clear removes the persisted session.
func (s *FileSessionStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// MemorySessionStore holds the token pair in memory. Used by tests and by
// launches that opt out of persistence.
type MemorySessionStore struct {
	pair *TokenPair
}

func NewMemorySessionStore() *MemorySessionStore { return &MemorySessionStore{} }

func (s *MemorySessionStore) Save(pair *TokenPair) error { s.pair = pair; return nil }
func (s *MemorySessionStore) Load() (*TokenPair, error)  { return s.pair, nil }
func (s *MemorySessionStore) Clear() error               { s.pair = nil; return nil }
