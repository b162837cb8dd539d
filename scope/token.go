// Package scope derives per-instance scope tokens and attaches them to
// rendered block markup.
package scope

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"
)

const (
	DefaultPrefix = "blockcss-"
	DefaultLength = 32
	minLength     = 8
	maxLength     = 64 // hex encoded 256 bit digest
)

// Fingerprint builds scope tokens: Prefix followed by Length hex characters
// of BLAKE3 digest.
type Fingerprint struct {
	Prefix string
	Length int
}

// Token returns deterministic token for block instance. Identical attributes
// and identical record produce identical tokens, anything else almost
// certainly does not. Maps are hashed in canonical (sorted key) JSON form.
func (f Fingerprint) Token(attrs map[string]any, record any) string {
	digest := blake3.Sum256(append(canonical(attrs), canonical(record)...))
	sum := hex.EncodeToString(digest[:])

	n := f.Length
	switch {
	case n == 0:
		n = DefaultLength
	case n < minLength:
		n = minLength
	case n > maxLength:
		n = maxLength
	}
	return f.Prefix + sum[:n]
}

func canonical(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		// NaN and friends: fmt sorts map keys, still deterministic
		return fmt.Appendf(nil, "%#v", v)
	}
	return data
}
