package authRepository

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"EchoOS/internal/api/auth"
	"EchoOS/internal/entity"
)

func newTestStore(t *testing.T) SessionStore {
	t.Helper()
	t.Setenv("SESSION_STORE_KEY", "test-store-key")
	t.Setenv("SESSION_STORE_PATH", filepath.Join(t.TempDir(), "sessions.dat"))

	store, err := NewSessionStore(testRepoLogger())
	if err != nil {
		t.Fatalf("new session store: %v", err)
	}
	return store
}

func testSession(id, username string, ttl time.Duration) entity.Session {
	now := time.Now()
	return entity.Session{
		ID:        id,
		Username:  username,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestSessionStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)

	session := testSession("s1", "alice", 30*time.Minute)
	if err := store.Put(session); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get("s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("username = %q, want alice", got.Username)
	}

	if _, err := store.Get("missing"); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Errorf("missing id: got %v, want ErrSessionNotFound", err)
	}
}

func TestSessionStorePersistsAcrossReopen(t *testing.T) {
	t.Setenv("SESSION_STORE_KEY", "test-store-key")
	t.Setenv("SESSION_STORE_PATH", filepath.Join(t.TempDir(), "sessions.dat"))

	store, err := NewSessionStore(testRepoLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Put(testSession("s1", "alice", 30*time.Minute)); err != nil {
		t.Fatalf("put: %v", err)
	}

	reopened, err := NewSessionStore(testRepoLogger())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, err := reopened.Get("s1"); err != nil {
		t.Errorf("session lost across restart: %v", err)
	}
}

func TestSessionStorePurgesExpiredAtBoot(t *testing.T) {
	t.Setenv("SESSION_STORE_KEY", "test-store-key")
	t.Setenv("SESSION_STORE_PATH", filepath.Join(t.TempDir(), "sessions.dat"))

	store, err := NewSessionStore(testRepoLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Put(testSession("live", "alice", 30*time.Minute)); err != nil {
		t.Fatalf("put live: %v", err)
	}
	if err := store.Put(testSession("dead", "bob", -time.Minute)); err != nil {
		t.Fatalf("put dead: %v", err)
	}

	reopened, err := NewSessionStore(testRepoLogger())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, err := reopened.Get("live"); err != nil {
		t.Errorf("live session: %v", err)
	}
	if _, err := reopened.Get("dead"); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Errorf("expired session should be purged, got %v", err)
	}
}

func TestSessionStoreEncryptsAtRest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.dat")
	t.Setenv("SESSION_STORE_KEY", "test-store-key")
	t.Setenv("SESSION_STORE_PATH", path)

	store, err := NewSessionStore(testRepoLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Put(testSession("s1", "alice", 30*time.Minute)); err != nil {
		t.Fatalf("put: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read store file: %v", err)
	}
	if containsBytes(raw, "alice") {
		t.Error("store file leaks the username in plaintext")
	}
}

func containsBytes(raw []byte, s string) bool {
	needle := []byte(s)
	for i := 0; i+len(needle) <= len(raw); i++ {
		match := true
		for j := range needle {
			if raw[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func TestSessionStoreDelete(t *testing.T) {
	store := newTestStore(t)

	if err := store.Put(testSession("s1", "alice", 30*time.Minute)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Delete("s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get("s1"); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Errorf("after delete: got %v", err)
	}

	// Deleting an unknown id is a no-op.
	if err := store.Delete("s1"); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestSessionStoreDeleteByUsername(t *testing.T) {
	store := newTestStore(t)

	if err := store.Put(testSession("s1", "alice", 30*time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(testSession("s2", "alice", 30*time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(testSession("s3", "bob", 30*time.Minute)); err != nil {
		t.Fatal(err)
	}

	if err := store.DeleteByUsername("alice"); err != nil {
		t.Fatalf("delete by username: %v", err)
	}

	if _, err := store.Get("s1"); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Error("alice session s1 should be gone")
	}
	if _, err := store.Get("s2"); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Error("alice session s2 should be gone")
	}
	if _, err := store.Get("s3"); err != nil {
		t.Errorf("bob session should survive: %v", err)
	}
}
