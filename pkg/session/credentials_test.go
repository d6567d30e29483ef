package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mathevilla/mathevilla/pkg/session"
)

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "credentials.bin")
	store := session.NewFileStoreAt(path)

	if err := store.Save("tok1"); err != nil {
		t.Fatalf("Save: unexpected error: %v", err)
	}

	// The raw token must not appear in the file.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read credentials file: %v", err)
	}
	if string(data) == "tok1" {
		t.Fatal("token stored in plaintext")
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}
	if got != "tok1" {
		t.Fatalf("want tok1, got %q", got)
	}
}

func TestFileStoreLoadMissing(t *testing.T) {
	t.Parallel()

	store := session.NewFileStoreAt(filepath.Join(t.TempDir(), "credentials.bin"))
	got, err := store.Load()
	if err != nil {
		t.Fatalf("missing file must not be an error, got %v", err)
	}
	if got != "" {
		t.Fatalf("want empty token, got %q", got)
	}
}

func TestFileStoreClear(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "credentials.bin")
	store := session.NewFileStoreAt(path)

	if err := store.Clear(); err != nil {
		t.Fatalf("clearing an empty store must succeed, got %v", err)
	}

	if err := store.Save("tok1"); err != nil {
		t.Fatalf("Save: unexpected error: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: unexpected error: %v", err)
	}
	if got, _ := store.Load(); got != "" {
		t.Fatalf("want empty token after clear, got %q", got)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "credentials.bin")
	if err := os.WriteFile(path, []byte("garbage"), 0600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	store := session.NewFileStoreAt(path)
	got, err := store.Load()
	if err == nil {
		t.Fatal("corrupt file must surface an error")
	}
	if got != "" {
		t.Fatalf("corrupt file must yield no token, got %q", got)
	}
}
