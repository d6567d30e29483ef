package crypto_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/mathevilla/mathevilla/pkg/crypto"
)

func TestSealOpenRoundTrip(t *testing.T) {
	t.Parallel()

	passphrase := []byte("local machine secret")
	token := []byte("tok-3f9a1c")

	sealed, err := crypto.Seal(token, passphrase)
	if err != nil {
		t.Fatalf("Seal: unexpected error: %v", err)
	}
	if bytes.Contains(sealed, token) {
		t.Fatal("sealed blob contains the raw token")
	}

	opened, err := crypto.Open(sealed, passphrase)
	if err != nil {
		t.Fatalf("Open: unexpected error: %v", err)
	}
	if !bytes.Equal(opened, token) {
		t.Fatalf("round trip mismatch: want %q got %q", token, opened)
	}
}

func TestOpenWrongPassphrase(t *testing.T) {
	t.Parallel()

	sealed, err := crypto.Seal([]byte("tok"), []byte("right"))
	if err != nil {
		t.Fatalf("Seal: unexpected error: %v", err)
	}
	if _, err := crypto.Open(sealed, []byte("wrong")); !errors.Is(err, crypto.ErrDecryptionFailed) {
		t.Fatalf("want ErrDecryptionFailed, got %v", err)
	}
}

func TestOpenTampered(t *testing.T) {
	t.Parallel()

	passphrase := []byte("secret")
	sealed, err := crypto.Seal([]byte("tok"), passphrase)
	if err != nil {
		t.Fatalf("Seal: unexpected error: %v", err)
	}
	sealed[len(sealed)-1] ^= 0xff
	if _, err := crypto.Open(sealed, passphrase); !errors.Is(err, crypto.ErrDecryptionFailed) {
		t.Fatalf("want ErrDecryptionFailed, got %v", err)
	}
}

func TestOpenTruncated(t *testing.T) {
	t.Parallel()

	if _, err := crypto.Open([]byte("short"), []byte("secret")); !errors.Is(err, crypto.ErrInvalidCiphertext) {
		t.Fatalf("want ErrInvalidCiphertext, got %v", err)
	}
}

func TestSealFreshSalt(t *testing.T) {
	t.Parallel()

	passphrase := []byte("secret")
	a, err := crypto.Seal([]byte("tok"), passphrase)
	if err != nil {
		t.Fatalf("Seal: unexpected error: %v", err)
	}
	b, err := crypto.Seal([]byte("tok"), passphrase)
	if err != nil {
		t.Fatalf("Seal: unexpected error: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatal("two seals of the same token must differ (fresh salt/nonce)")
	}
}
