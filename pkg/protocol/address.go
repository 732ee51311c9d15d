package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/walletconnect-go/connector/internal/wchex"
)

// AddressSize is the length, in bytes, of an Ethereum account address.
const AddressSize = 20

// ErrAddressLength is returned when a 0x-prefixed address string does not
// decode to exactly AddressSize bytes.
var ErrAddressLength = errors.New("protocol: address must be exactly 20 bytes")

// Address is a 20-byte Ethereum account address, serialized as a
// 0x-prefixed lowercase hex string.
type Address [AddressSize]byte

// ParseAddress decodes a 0x-prefixed hex address string.
func ParseAddress(s string) (Address, error) {
	var a Address
	if !strings.HasPrefix(s, "0x") {
		return a, fmt.Errorf("%w: missing 0x prefix", ErrAddressLength)
	}
	if err := wchex.DecodeInto(s[2:], a[:]); err != nil {
		return a, fmt.Errorf("%w: %v", ErrAddressLength, err)
	}
	return a, nil
}

func (a Address) String() string {
	return "0x" + wchex.Encode(a[:])
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
