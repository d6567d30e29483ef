package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mathevilla/mathevilla/pkg/crypto"
)

// CredentialStore persists the bearer token across restarts.
type CredentialStore interface {
	// Save durably stores the token, replacing any previous one.
	Save(token string) error
	// Load returns the stored token, or "" if none is stored.
	Load() (string, error)
	// Clear removes the stored token. Clearing an empty store is not an error.
	Clear() error
}

// FileStore keeps the token sealed on disk next to the binary.
type FileStore struct {
	path   string
	secret []byte
}

// NewFileStore creates a store using credentials.bin next to the executable.
func NewFileStore() *FileStore {
	exe, err := os.Executable()
	if err != nil {
		return NewFileStoreAt("credentials.bin")
	}
	return NewFileStoreAt(filepath.Join(filepath.Dir(exe), "credentials.bin"))
}

// NewFileStoreAt creates a store at an explicit path (tests).
func NewFileStoreAt(path string) *FileStore {
	return &FileStore{path: path, secret: crypto.LocalSecret()}
}

func (fs *FileStore) Save(token string) error {
	sealed, err := crypto.Seal([]byte(token), fs.secret)
	if err != nil {
		return fmt.Errorf("session: seal token: %w", err)
	}
	if err := os.WriteFile(fs.path, sealed, 0600); err != nil {
		return fmt.Errorf("session: write credentials: %w", err)
	}
	return nil
}

func (fs *FileStore) Load() (string, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("session: read credentials: %w", err)
	}
	token, err := crypto.Open(data, fs.secret)
	if err != nil {
		// Unreadable credentials are as good as none.
		return "", fmt.Errorf("session: unseal token: %w", err)
	}
	return string(token), nil
}

func (fs *FileStore) Clear() error {
	if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: clear credentials: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory CredentialStore for tests.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreWithToken creates a store pre-seeded with a token.
func NewMemoryStoreWithToken(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (ms *MemoryStore) Save(token string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.token = token
	return nil
}

func (ms *MemoryStore) Load() (string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.token, nil
}

func (ms *MemoryStore) Clear() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.token = ""
	return nil
}

// Compile-time checks.
var (
	_ CredentialStore = (*FileStore)(nil)
	_ CredentialStore = (*MemoryStore)(nil)
)
