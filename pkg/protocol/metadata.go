package protocol

import (
	"bytes"
	"encoding/json"
)

// Metadata describes one side of a session: the dapp (client_meta) or,
// once learned from a handshake reply, the wallet (peer_meta).
type Metadata struct {
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Icons       []string `json:"icons"`
	Name        string   `json:"name"`
}

// PeerMetadata wraps the peer's self-reported Metadata. Peers are
// untrusted and occasionally send malformed metadata; rather than fail
// the whole handshake over a cosmetic field, a parse failure is preserved
// verbatim as opaque JSON instead of being rejected.
type PeerMetadata struct {
	Metadata *Metadata
	Raw      json.RawMessage
}

// MarshalJSON re-emits whichever form was parsed (or constructed).
func (p PeerMetadata) MarshalJSON() ([]byte, error) {
	if p.Metadata != nil {
		return json.Marshal(p.Metadata)
	}
	if len(p.Raw) > 0 {
		return p.Raw, nil
	}
	return []byte("null"), nil
}

// UnmarshalJSON attempts a strict Metadata parse first; on failure it
// keeps the raw JSON instead of propagating the error.
func (p *PeerMetadata) UnmarshalJSON(data []byte) error {
	var m Metadata
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err == nil {
		p.Metadata = &m
		p.Raw = nil
		return nil
	}
	raw := make(json.RawMessage, len(data))
	copy(raw, data)
	p.Metadata = nil
	p.Raw = raw
	return nil
}

// NewPeerMetadata wraps a well-formed Metadata as a PeerMetadata.
func NewPeerMetadata(m Metadata) PeerMetadata {
	return PeerMetadata{Metadata: &m}
}
