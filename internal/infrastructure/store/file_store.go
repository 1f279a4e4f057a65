// Package store persists the session pair (bearer token + user record) in a
// client-local JSON file. This is the process-wide shared state behind the
// session; the session service is its only writer.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/shopfront/catalog-console/internal/core/domain"
	"github.com/shopfront/catalog-console/internal/core/ports"
)

const fileMode = 0o600

// fileState is the on-disk layout. The token and user are stored together;
// a file missing either half loads as an empty session.
type fileState struct {
	AccessToken string              `json:"access_token"`
	User        *domain.UserProfile `json:"user,omitempty"`
}

// FileStore implements ports.CredentialStore over a single JSON file. The
// current state is cached in memory so Token can serve request signing
// without touching the disk.
type FileStore struct {
	mu    sync.Mutex
	path  string
	state fileState
}

var _ ports.CredentialStore = (*FileStore)(nil)

// DefaultPath returns the session file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "catalog-console", "session.json"), nil
}

// NewFileStore opens (or lazily creates) the store at path. An unreadable or
// unparseable file is treated as an empty session, not an error: restore
// semantics tolerate corruption by starting logged out.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("store: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	s := &FileStore{path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read store: %w", err)
	}
	var state fileState
	if err := json.Unmarshal(raw, &state); err == nil {
		s.state = state
	}
	return s, nil
}

// Token returns the cached bearer token, empty when logged out.
func (s *FileStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AccessToken
}

// Load returns the persisted pair. Both values are zero unless the pair is
// complete.
func (s *FileStore) Load() (string, *domain.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.AccessToken == "" || s.state.User == nil {
		return "", nil
	}
	user := *s.state.User
	return s.state.AccessToken, &user
}

// SetSession replaces both entries as a pair.
func (s *FileStore) SetSession(token string, user *domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state
	s.state = fileState{AccessToken: token, User: cloneUser(user)}
	if err := s.persist(); err != nil {
		s.state = prev
		return err
	}
	return nil
}

// SetToken replaces only the token; the user record is untouched.
func (s *FileStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state.AccessToken
	s.state.AccessToken = token
	if err := s.persist(); err != nil {
		s.state.AccessToken = prev
		return err
	}
	return nil
}

// SetUser replaces only the user record; the token is untouched.
func (s *FileStore) SetUser(user *domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state.User
	s.state.User = cloneUser(user)
	if err := s.persist(); err != nil {
		s.state.User = prev
		return err
	}
	return nil
}

// Clear removes both entries and the backing file. It never fails: a remove
// error still leaves the in-memory state empty, so the session is gone either
// way.
func (s *FileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fileState{}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_ = os.WriteFile(s.path, []byte("{}"), fileMode)
	}
}

func (s *FileStore) persist() error {
	raw, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	if err := os.WriteFile(s.path, raw, fileMode); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	return nil
}

func cloneUser(u *domain.UserProfile) *domain.UserProfile {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}
