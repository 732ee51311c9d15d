package protocol

import (
	"encoding/json"
	"fmt"
)

// RequestID is a JSON-RPC request identifier. WalletConnect ids are
// monotonically increasing within a process and large enough (typically
// millisecond timestamps) that they don't fit comfortably in anything
// smaller than an int64.
type RequestID int64

const jsonrpcVersion = "2.0"

// MethodCall is an outbound or inbound JSON-RPC 2.0 request.
type MethodCall struct {
	ID      RequestID       `json:"id"`
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// NewMethodCall builds a MethodCall, applying the protocol's parameter
// encoding rule: a value that already serializes to a JSON array is used
// as positional params directly, otherwise it is wrapped in a
// single-element array.
func NewMethodCall(id RequestID, method string, param any) (MethodCall, error) {
	encoded, err := json.Marshal(param)
	if err != nil {
		return MethodCall{}, fmt.Errorf("protocol: marshal params: %w", err)
	}

	params := encoded
	if !isJSONArray(encoded) {
		wrapped, err := json.Marshal([]json.RawMessage{encoded})
		if err != nil {
			return MethodCall{}, fmt.Errorf("protocol: wrap params: %w", err)
		}
		params = wrapped
	}

	return MethodCall{
		ID:      id,
		JSONRPC: jsonrpcVersion,
		Method:  method,
		Params:  params,
	}, nil
}

func isJSONArray(encoded []byte) bool {
	for _, b := range encoded {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}

// RPCError is a JSON-RPC 2.0 error object, returned by the peer when it
// rejects a call.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// Output is an inbound JSON-RPC 2.0 response: exactly one of Result or
// Error is populated.
type Output struct {
	ID      RequestID       `json:"id"`
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// Into decodes a successful Result into v, or returns the peer's RPCError
// if the call failed.
func (o Output) Into(v any) error {
	if o.Error != nil {
		return o.Error
	}
	if v == nil {
		return nil
	}
	if err := json.Unmarshal(o.Result, v); err != nil {
		return fmt.Errorf("protocol: decode result: %w", err)
	}
	return nil
}

// DecodeParams decodes a MethodCall's Params into v, accepting either the
// positional-array encoding NewMethodCall produces or a bare object, since
// peers are not guaranteed to follow the same wrapping convention.
func DecodeParams(params json.RawMessage, v any) error {
	var arr []json.RawMessage
	if err := json.Unmarshal(params, &arr); err == nil {
		if len(arr) == 0 {
			return fmt.Errorf("protocol: empty params array")
		}
		return json.Unmarshal(arr[0], v)
	}
	return json.Unmarshal(params, v)
}

// LooksLikeOutput reports whether the plaintext is structurally a JSON-RPC
// Output (carries "result" or "error") rather than a MethodCall. The
// inbound dispatcher uses this to decide which shape to parse first.
func LooksLikeOutput(plaintext []byte) bool {
	var probe struct {
		Method *string         `json:"method"`
		Result json.RawMessage `json:"result"`
		Error  json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(plaintext, &probe); err != nil {
		return false
	}
	return probe.Method == nil && (probe.Result != nil || probe.Error != nil)
}
