package testutil

import (
	"bufio"
	"fmt"
	"io"

	"filippo.io/age"
	"filippo.io/age/armor"
)

// Decrypt reads age ciphertext from r, armored or binary, with the given identities.
func Decrypt(r io.Reader, identities ...age.Identity) (io.Reader, error) {
	br := bufio.NewReader(r)
	var src io.Reader = br
	if peek, _ := br.Peek(len(armor.Header)); string(peek) == armor.Header {
		src = armor.NewReader(br)
	}
	dec, err := age.Decrypt(src, identities...)
	if err != nil {
		return nil, fmt.Errorf("creating decrypted reader: %w", err)
	}
	return dec, nil
}
