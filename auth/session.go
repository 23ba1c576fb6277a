package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Session is the signed in state of the local user.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionStore interface {
	Load() (Session, bool, error)
	Save(session Session) error
	Clear() error
}

// FileSessionStore keeps the session in a single file readable by its owner only.
type FileSessionStore struct {
	path string
}

func NewFileSessionStore(path string) FileSessionStore {
	return FileSessionStore{path: path}
}

func (f FileSessionStore) Load() (Session, bool, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("read session: %w", err)
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return Session{}, false, fmt.Errorf("decode session: %w", err)
	}
	return session, true, nil
}

func (f FileSessionStore) Save(session Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	return os.WriteFile(f.path, data, 0o600)
}

func (f FileSessionStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemorySessionStore forgets the session with the process.
type MemorySessionStore struct {
	session *Session
}

func (m *MemorySessionStore) Load() (Session, bool, error) {
	if m.session == nil {
		return Session{}, false, nil
	}
	return *m.session, true, nil
}

func (m *MemorySessionStore) Save(session Session) error {
	m.session = &session
	return nil
}

func (m *MemorySessionStore) Clear() error {
	m.session = nil
	return nil
}
