package protocol

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// Quantity is an arbitrary-precision unsigned integer serialized the way
// Ethereum JSON-RPC serializes quantities: a 0x-prefixed hex string with
// no leading zeros (except the value zero itself, "0x0"). It stands in
// for gas limits, gas prices, values, and nonces, none of which fit
// reliably in a machine word.
//
// No library in the dependency set this module draws on implements this
// exact quantity encoding, so it is built directly on math/big.
type Quantity struct {
	big.Int
}

// NewQuantity wraps an int64 as a Quantity.
func NewQuantity(v int64) Quantity {
	var q Quantity
	q.SetInt64(v)
	return q
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	if q.Sign() == 0 {
		return json.Marshal("0x0")
	}
	return json.Marshal("0x" + strings.ToLower(q.Text(16)))
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if !strings.HasPrefix(s, "0x") {
		return fmt.Errorf("protocol: quantity %q missing 0x prefix", s)
	}
	v, ok := new(big.Int).SetString(s[2:], 16)
	if !ok {
		return fmt.Errorf("protocol: invalid quantity %q", s)
	}
	q.Int = *v
	return nil
}
