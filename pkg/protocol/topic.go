// Package protocol defines the wire-level types exchanged with the relay
// and the peer: topics, socket frames, the AEAD envelope they carry, and
// the JSON-RPC payloads exchanged once a frame is opened.
package protocol

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Topic identifies a relay channel. It is a UUID string used like a
// postbox address: client_id, peer_id, and handshake_topic are all Topics.
type Topic string

// NewTopic returns a fresh random Topic.
func NewTopic() Topic {
	return Topic(uuid.New().String())
}

// ZeroTopic returns the nil UUID topic, used as a zero value in tests and
// as a sentinel for "not yet assigned".
func ZeroTopic() Topic {
	return Topic(uuid.Nil.String())
}

func (t Topic) String() string {
	return string(t)
}

// MarshalJSON renders the Topic transparently as its string value.
func (t Topic) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

// UnmarshalJSON parses the Topic transparently from a JSON string. It does
// not validate UUID structure beyond what the peer sent — a relay or peer
// could hand back anything, and rejecting unparseable topics outright
// would turn a cosmetic mismatch into a hard failure.
func (t *Topic) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = Topic(s)
	return nil
}
