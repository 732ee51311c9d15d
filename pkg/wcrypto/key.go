// Package wcrypto implements the symmetric key and AEAD envelope used by
// the WalletConnect v1 wire protocol: AES-256-CBC encryption with
// HMAC-SHA256 computed over ciphertext‖iv, both keyed by the same 32-byte
// secret. This exact construction is mandated by the protocol for wire
// compatibility with existing bridges and wallets — it is not a general
// purpose AEAD choice.
package wcrypto

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/walletconnect-go/connector/internal/wchex"
)

// KeySize is the required length, in bytes, of a WalletConnect session key.
const KeySize = 32

// ErrKeyLength is returned when a key is not exactly KeySize bytes.
var ErrKeyLength = errors.New("wcrypto: key must be exactly 32 bytes")

// Key is the 32-byte secret shared between dapp and wallet. It is used both
// as the AES-256-CBC key and the HMAC-SHA256 key (the protocol reuses one
// secret for both roles — preserve this, do not split into separate keys).
type Key struct {
	raw [KeySize]byte
}

// Random draws a new Key from a cryptographically secure source.
func Random() (Key, error) {
	var k Key
	if _, err := rand.Read(k.raw[:]); err != nil {
		return Key{}, fmt.Errorf("wcrypto: generate random key: %w", err)
	}
	return k, nil
}

// FromBytes builds a Key from exactly 32 raw bytes.
func FromBytes(b []byte) (Key, error) {
	if len(b) != KeySize {
		return Key{}, ErrKeyLength
	}
	var k Key
	copy(k.raw[:], b)
	return k, nil
}

// FromHex parses a Key from its lowercase hex display form.
func FromHex(s string) (Key, error) {
	var k Key
	if err := wchex.DecodeInto(s, k.raw[:]); err != nil {
		return Key{}, fmt.Errorf("%w: %v", ErrKeyLength, err)
	}
	return k, nil
}

// Bytes returns the raw key bytes. Callers must not retain the returned
// slice past the Key's lifetime expectations; Zero() does not reach back
// into previously returned copies.
func (k Key) Bytes() []byte {
	out := make([]byte, KeySize)
	copy(out, k.raw[:])
	return out
}

// String renders the key as lowercase hex, matching the wire/display form
// used in pairing URIs.
func (k Key) String() string {
	return wchex.Encode(k.raw[:])
}

// GoString redacts the key in debug output so it never leaks into logs or
// panics.
func (k Key) GoString() string {
	return "wcrypto.Key(********)"
}

// Zero overwrites the key material in place. Call this when a session's
// key is no longer needed (session kill, process shutdown).
func (k *Key) Zero() {
	for i := range k.raw {
		k.raw[i] = 0
	}
}

// MarshalJSON renders the key as its lowercase hex string, matching the
// Session's camelCase JSON persistence format.
func (k Key) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON parses a lowercase hex string into a Key.
func (k *Key) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := FromHex(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
