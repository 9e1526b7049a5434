package encryption

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"filippo.io/age"

	"timepad/internal/testutil"
)

func TestAgeSealer_RecipientRoundTrip(t *testing.T) {
	t.Parallel()

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatalf("GenerateX25519Identity() error = %v", err)
	}

	tests := []struct {
		name    string
		input   []byte
		armored bool
	}{
		{name: "simple text", input: []byte("# 2024-01-15 10:30:00 alice\n\nhello\n")},
		{name: "empty", input: []byte{}},
		{name: "large data", input: bytes.Repeat([]byte("abcdef"), 10000)},
		{name: "armored", input: []byte("hello armor\n"), armored: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := NewRecipientSealer([]string{"# export key", identity.Recipient().String(), ""})
			if err != nil {
				t.Fatalf("NewRecipientSealer() error = %v", err)
			}

			var sealed bytes.Buffer
			w, err := s.Seal(&sealed, tt.armored)
			if err != nil {
				t.Fatalf("Seal() error = %v", err)
			}
			if _, err := w.Write(tt.input); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if err := w.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			if tt.armored && !bytes.HasPrefix(sealed.Bytes(), []byte("-----BEGIN AGE ENCRYPTED FILE-----")) {
				t.Errorf("armored output has no PEM header: %q", sealed.Bytes()[:min(40, sealed.Len())])
			}
			if len(tt.input) > 0 && bytes.Contains(sealed.Bytes(), tt.input) {
				t.Error("sealed output contains the plaintext")
			}

			r, err := testutil.Decrypt(&sealed, identity)
			if err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if !bytes.Equal(got, tt.input) {
				t.Errorf("round trip mismatch: got %d bytes, want %d", len(got), len(tt.input))
			}
		})
	}
}

func TestAgeSealer_PassphraseRoundTrip(t *testing.T) {
	t.Parallel()

	s, err := NewPassphraseSealer("correct horse")
	if err != nil {
		t.Fatalf("NewPassphraseSealer() error = %v", err)
	}

	var sealed bytes.Buffer
	w, err := s.Seal(&sealed, false)
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	io.WriteString(w, "secret entry")
	w.Close()

	wrong, _ := age.NewScryptIdentity("wrong")
	if _, err := testutil.Decrypt(bytes.NewReader(sealed.Bytes()), wrong); err == nil {
		t.Error("Decrypt() with wrong passphrase expected error")
	}

	id, _ := age.NewScryptIdentity("correct horse")
	r, err := testutil.Decrypt(bytes.NewReader(sealed.Bytes()), id)
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	got, _ := io.ReadAll(r)
	if string(got) != "secret entry" {
		t.Errorf("decrypted = %q, want %q", got, "secret entry")
	}
}

func TestNewRecipientSealer_errors(t *testing.T) {
	t.Parallel()

	if _, err := NewRecipientSealer([]string{"", "# only a comment"}); !errors.Is(err, ErrNoRecipients) {
		t.Errorf("NewRecipientSealer(empty) error = %v, want ErrNoRecipients", err)
	}
	if _, err := NewRecipientSealer([]string{"not-a-recipient"}); err == nil || errors.Is(err, ErrNoRecipients) {
		t.Errorf("NewRecipientSealer(garbage) error = %v, want parse error", err)
	}
	if _, err := NewPassphraseSealer(""); err == nil {
		t.Error("NewPassphraseSealer(\"\") expected error")
	}
}

func TestReadRecipientsFile(t *testing.T) {
	t.Parallel()

	identity, _ := age.GenerateX25519Identity()
	path := filepath.Join(t.TempDir(), "recipients")
	if err := os.WriteFile(path, []byte(identity.Recipient().String()+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	lines, err := ReadRecipientsFile(path)
	if err != nil {
		t.Fatalf("ReadRecipientsFile() error = %v", err)
	}
	if _, err := NewRecipientSealer(lines); err != nil {
		t.Errorf("NewRecipientSealer(file lines) error = %v", err)
	}

	if _, err := ReadRecipientsFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("ReadRecipientsFile(missing) expected error")
	}
}
