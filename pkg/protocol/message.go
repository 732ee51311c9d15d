package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/walletconnect-go/connector/pkg/wcrypto"
)

// SocketMessageKind distinguishes a publish frame from a subscribe frame.
type SocketMessageKind string

const (
	SocketMessagePub SocketMessageKind = "pub"
	SocketMessageSub SocketMessageKind = "sub"
)

// ErrUnknownSocketMessageKind is returned when a frame's "type" field is
// neither "pub" nor "sub".
var ErrUnknownSocketMessageKind = errors.New("protocol: unknown socket message kind")

// SocketMessage is the frame exchanged with the relay over the WebSocket.
// Payload is carried as a JSON-encoded string (stringified JSON inside
// JSON) rather than a nested object, matching the relay's wire format; an
// absent payload serializes as the empty string.
type SocketMessage struct {
	Topic   Topic
	Kind    SocketMessageKind
	Payload *wcrypto.EncryptionPayload
	Silent  bool
}

type socketMessageJSON struct {
	Topic   Topic             `json:"topic"`
	Kind    SocketMessageKind `json:"type"`
	Payload string            `json:"payload"`
	Silent  bool              `json:"silent"`
}

// MarshalJSON stringifies Payload into the "payload" field, or emits an
// empty string when Payload is nil.
func (m SocketMessage) MarshalJSON() ([]byte, error) {
	payload := ""
	if m.Payload != nil {
		b, err := json.Marshal(m.Payload)
		if err != nil {
			return nil, fmt.Errorf("protocol: marshal payload: %w", err)
		}
		payload = string(b)
	}
	return json.Marshal(socketMessageJSON{
		Topic:   m.Topic,
		Kind:    m.Kind,
		Payload: payload,
		Silent:  m.Silent,
	})
}

// UnmarshalJSON parses the stringified "payload" field back into an
// EncryptionPayload, treating an empty string as no payload.
func (m *SocketMessage) UnmarshalJSON(data []byte) error {
	var raw socketMessageJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Kind != SocketMessagePub && raw.Kind != SocketMessageSub {
		return fmt.Errorf("%w: %q", ErrUnknownSocketMessageKind, raw.Kind)
	}

	m.Topic = raw.Topic
	m.Kind = raw.Kind
	m.Silent = raw.Silent
	m.Payload = nil
	if raw.Payload != "" {
		var payload wcrypto.EncryptionPayload
		if err := json.Unmarshal([]byte(raw.Payload), &payload); err != nil {
			return fmt.Errorf("protocol: unmarshal payload: %w", err)
		}
		m.Payload = &payload
	}
	return nil
}
