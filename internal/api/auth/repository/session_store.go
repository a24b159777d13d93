package authRepository

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/nacl/secretbox"

	"EchoOS/internal/api/auth"
	"EchoOS/internal/entity"
)

// SessionStore keeps sessions durable between runs, encrypted at rest with
// secretbox. Single-writer discipline: every mutation holds the mutex and
// rewrites the file.
type SessionStore interface {
	Put(session entity.Session) error
	Get(id string) (entity.Session, error)
	Delete(id string) error
	DeleteByUsername(username string) error
	PurgeExpired(now time.Time) int
	Clear() error
}

type sessionStore struct {
	path string
	key  [32]byte
	log  *logrus.Logger

	mu       sync.Mutex
	sessions map[string]entity.Session
}

func NewSessionStore(log *logrus.Logger) (SessionStore, error) {
	secret := os.Getenv("SESSION_STORE_KEY")
	if secret == "" {
		return nil, fmt.Errorf("SESSION_STORE_KEY not set")
	}

	path := os.Getenv("SESSION_STORE_PATH")
	if path == "" {
		path = "config/sessions.dat"
	}

	store := &sessionStore{
		path:     path,
		key:      sha256.Sum256([]byte(secret)),
		log:      log,
		sessions: make(map[string]entity.Session),
	}

	if err := store.load(); err != nil {
		return nil, err
	}

	purged := store.PurgeExpired(time.Now())
	if purged > 0 {
		log.WithField("count", purged).Info("Purged expired sessions at boot")
	}

	return store, nil
}

func (s *sessionStore) Put(session entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = session
	return s.persistLocked()
}

func (s *sessionStore) Get(id string) (entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return entity.Session{}, auth.ErrSessionNotFound
	}
	return session, nil
}

func (s *sessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		// Logout is idempotent.
		return nil
	}
	delete(s.sessions, id)
	return s.persistLocked()
}

func (s *sessionStore) DeleteByUsername(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for id, session := range s.sessions {
		if session.Username == username {
			delete(s.sessions, id)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.persistLocked()
}

func (s *sessionStore) PurgeExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for id, session := range s.sessions {
		if session.ExpiredAt(now) {
			delete(s.sessions, id)
			purged++
		}
	}
	if purged > 0 {
		if err := s.persistLocked(); err != nil {
			s.log.WithError(err).Error("Failed to persist session purge")
		}
	}
	return purged
}

func (s *sessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make(map[string]entity.Session)
	return s.persistLocked()
}

func (s *sessionStore) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	if len(raw) < 24 {
		s.log.Warn("Session store file corrupt, starting empty")
		return nil
	}

	var nonce [24]byte
	copy(nonce[:], raw[:24])

	plain, ok := secretbox.Open(nil, raw[24:], &nonce, &s.key)
	if !ok {
		// Wrong key or tampered file; sessions are recoverable by
		// re-authenticating, so start empty rather than refuse to boot.
		s.log.Warn("Session store failed to decrypt, starting empty")
		return nil
	}

	if err := json.Unmarshal(plain, &s.sessions); err != nil {
		s.log.WithError(err).Warn("Session store failed to decode, starting empty")
		s.sessions = make(map[string]entity.Session)
	}

	return nil
}

func (s *sessionStore) persistLocked() error {
	plain, err := json.Marshal(s.sessions)
	if err != nil {
		return err
	}

	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return err
	}

	sealed := secretbox.Seal(nonce[:], plain, &nonce, &s.key)

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, sealed, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
