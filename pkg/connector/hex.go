package connector

import (
	"fmt"

	"github.com/walletconnect-go/connector/internal/wchex"
)

func decodeHex(s string) ([]byte, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	b, err := wchex.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("connector: decode hex result: %w", err)
	}
	return b, nil
}

func decodeFixedHex32(s string) ([32]byte, error) {
	var out [32]byte
	b, err := decodeHex(s)
	if err != nil {
		return out, err
	}
	if len(b) != 32 {
		return out, fmt.Errorf("connector: expected 32-byte hash, got %d bytes", len(b))
	}
	copy(out[:], b)
	return out, nil
}
