// Package wchex provides the lowercase hex codec used across the wire
// formats of the WalletConnect protocol. It has no empty-string-optional
// codec; the types in pkg/protocol encode absent values themselves.
package wchex

import "encoding/hex"

// Encode returns the lowercase hex encoding of data.
func Encode(data []byte) string {
	return hex.EncodeToString(data)
}

// Decode parses a lowercase (or mixed-case) hex string back into bytes.
func Decode(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

// DecodeInto decodes s into buf, returning an error if the decoded length
// does not exactly match len(buf).
func DecodeInto(s string, buf []byte) error {
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(decoded) != len(buf) {
		return hex.ErrLength
	}
	copy(buf, decoded)
	return nil
}
