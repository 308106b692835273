package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// sessionFileName is the file the CLI login flow saves credentials under.
const sessionFileName = "linkedin.json"

// FileStore persists the session as a JSON file under the auth directory, so
// a CLI login survives restarts the way the browser's localStorage does.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore constructs a FileStore rooted at authDir.
func NewFileStore(authDir string) *FileStore {
	return &FileStore{path: filepath.Join(authDir, sessionFileName)}
}

// Get reads the persisted session, if present and valid.
func (f *FileStore) Get() (AuthSession, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		return AuthSession{}, false
	}
	var session AuthSession
	if err = json.Unmarshal(data, &session); err != nil || !session.Valid() {
		return AuthSession{}, false
	}
	return session, true
}

// Set serialises the session to disk, creating the auth directory on demand.
func (f *FileStore) Set(session AuthSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("session: create directory failed: %w", err)
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("session: encode session failed: %w", err)
	}
	if err = os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("session: write file failed: %w", err)
	}
	return nil
}

// Clear removes the persisted session. A missing file is not an error.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: remove file failed: %w", err)
	}
	return nil
}
