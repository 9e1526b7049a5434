package encryption

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"
)

// ErrNoRecipients is returned when neither recipients nor a passphrase were given.
var ErrNoRecipients = errors.New("no age recipients")

// AgeSealer wraps writers so that everything written to them is age-encrypted
// to a fixed set of recipients.
type AgeSealer struct {
	recipients []age.Recipient
}

// NewRecipientSealer parses age recipient strings ("age1...") into a sealer.
// Blank entries and "#" comments are ignored.
func NewRecipientSealer(recipients []string) (*AgeSealer, error) {
	joined := strings.Join(recipients, "\n")
	parsed, err := age.ParseRecipients(strings.NewReader(joined))
	if err != nil {
		// ParseRecipients rejects input with no recipients at all.
		if strings.TrimSpace(stripComments(joined)) == "" {
			return nil, ErrNoRecipients
		}
		return nil, fmt.Errorf("parsing recipients: %w", err)
	}
	return &AgeSealer{recipients: parsed}, nil
}

// NewPassphraseSealer derives an scrypt recipient from passphrase.
func NewPassphraseSealer(passphrase string) (*AgeSealer, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("empty passphrase")
	}
	r, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt recipient: %w", err)
	}
	return &AgeSealer{recipients: []age.Recipient{r}}, nil
}

// ReadRecipientsFile reads recipient lines from path.
func ReadRecipientsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipients file: %w", err)
	}
	return strings.Split(string(data), "\n"), nil
}

// Seal returns a writer that encrypts to w, PEM-armored when armored is set.
// The caller must Close it to flush the final chunk; closing does not close w.
func (s *AgeSealer) Seal(w io.Writer, armored bool) (io.WriteCloser, error) {
	if !armored {
		enc, err := age.Encrypt(w, s.recipients...)
		if err != nil {
			return nil, fmt.Errorf("creating encrypted writer: %w", err)
		}
		return enc, nil
	}
	aw := armor.NewWriter(w)
	enc, err := age.Encrypt(aw, s.recipients...)
	if err != nil {
		return nil, fmt.Errorf("creating encrypted writer: %w", err)
	}
	return &armoredWriter{enc: enc, armor: aw}, nil
}

type armoredWriter struct {
	enc   io.WriteCloser
	armor io.WriteCloser
}

func (w *armoredWriter) Write(p []byte) (int, error) { return w.enc.Write(p) }

func (w *armoredWriter) Close() error {
	if err := w.enc.Close(); err != nil {
		return err
	}
	return w.armor.Close()
}

func stripComments(s string) string {
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		b.WriteString(line)
	}
	return b.String()
}
