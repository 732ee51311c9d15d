// Package connector implements the WalletConnect session lifecycle:
// pairing, JSON-RPC request correlation over the relay, and the public
// signing/transaction API.
package connector

import (
	"github.com/walletconnect-go/connector/pkg/protocol"
	"github.com/walletconnect-go/connector/pkg/wcrypto"
	"github.com/walletconnect-go/connector/pkg/wcuri"
)

// DefaultBridgeURL is the public WalletConnect v1 bridge used when the
// caller does not specify one.
const DefaultBridgeURL = "https://bridge.walletconnect.org"

// Connection selects how a session's handshake topic and key are
// established: as the pairing initiator (a fresh Bridge connection) or
// as the responder adopting a URI received out-of-band.
type Connection interface {
	isConnection()
}

// BridgeConnection is the initiator side: connect to bridge and generate
// a fresh handshake topic and key.
type BridgeConnection struct {
	Bridge string
}

func (BridgeConnection) isConnection() {}

// URIConnection is the responder side: adopt the handshake topic, bridge,
// and key carried in a pairing URI.
type URIConnection struct {
	URI wcuri.URI
}

func (URIConnection) isConnection() {}

// Options configures a Connector's session. Two Options with the same
// Profile produce the same persisted Session only if Matches(session)
// holds; otherwise a fresh one is generated and the old one overwritten.
type Options struct {
	Profile    string
	Meta       protocol.Metadata
	Connection Connection
	ChainID    *uint64
}

// NewOptions builds Options with the default bridge connection.
func NewOptions(profile string, meta protocol.Metadata) Options {
	return Options{
		Profile:    profile,
		Meta:       meta,
		Connection: BridgeConnection{Bridge: DefaultBridgeURL},
	}
}

// NewOptionsWithURI builds Options for the responder side of a pairing.
func NewOptionsWithURI(profile string, meta protocol.Metadata, uri wcuri.URI) Options {
	return Options{
		Profile:    profile,
		Meta:       meta,
		Connection: URIConnection{URI: uri},
	}
}

// CreateSession builds a fresh Session for these Options: a random key
// and client_id, and either a random handshake_topic (initiator) or the
// one carried in the pairing URI (responder).
func (o Options) CreateSession() (Session, error) {
	var handshakeTopic protocol.Topic
	var bridge string
	var key wcrypto.Key

	switch conn := o.Connection.(type) {
	case BridgeConnection:
		k, err := wcrypto.Random()
		if err != nil {
			return Session{}, err
		}
		handshakeTopic = protocol.NewTopic()
		bridge = conn.Bridge
		key = k
	case URIConnection:
		handshakeTopic = conn.URI.HandshakeTopic
		bridge = conn.URI.Bridge
		key = conn.URI.Key
	default:
		handshakeTopic = protocol.NewTopic()
		bridge = DefaultBridgeURL
		k, err := wcrypto.Random()
		if err != nil {
			return Session{}, err
		}
		key = k
	}

	return Session{
		Connected:      false,
		Accounts:       nil,
		ChainID:        o.ChainID,
		Bridge:         bridge,
		Key:            key,
		ClientID:       protocol.NewTopic(),
		ClientMeta:     o.Meta,
		PeerID:         nil,
		PeerMeta:       nil,
		HandshakeID:    0,
		HandshakeTopic: handshakeTopic,
	}, nil
}

// Matches reports whether a persisted Session was created from Options
// equivalent to o. Per the documented source behavior this compares
// metadata and bridge (or, for the responder side, the exact pairing
// URI) — deliberately not ChainID, so changing Options.ChainID alone
// reuses an existing session rather than forcing a fresh pairing.
func (o Options) Matches(session Session) bool {
	if !metadataEqual(o.Meta, session.ClientMeta) {
		return false
	}
	switch conn := o.Connection.(type) {
	case BridgeConnection:
		return conn.Bridge == session.Bridge
	case URIConnection:
		return conn.URI == session.URI()
	default:
		return false
	}
}

func metadataEqual(a, b protocol.Metadata) bool {
	if a.Name != b.Name || a.Description != b.Description || a.URL != b.URL {
		return false
	}
	if len(a.Icons) != len(b.Icons) {
		return false
	}
	for i := range a.Icons {
		if a.Icons[i] != b.Icons[i] {
			return false
		}
	}
	return true
}

// Session is the persisted post-pairing relationship: the symmetric key,
// peer identity, approved accounts, and chain ID. It is serialized
// camelCase to disk via pkg/storage.
type Session struct {
	Connected      bool                   `json:"connected"`
	Accounts       []protocol.Address     `json:"accounts"`
	ChainID        *uint64                `json:"chainId"`
	Bridge         string                 `json:"bridge"`
	Key            wcrypto.Key            `json:"key"`
	ClientID       protocol.Topic         `json:"clientId"`
	ClientMeta     protocol.Metadata      `json:"clientMeta"`
	PeerID         *protocol.Topic        `json:"peerId"`
	PeerMeta       *protocol.PeerMetadata `json:"peerMeta"`
	HandshakeID    protocol.RequestID     `json:"handshakeId"`
	HandshakeTopic protocol.Topic         `json:"handshakeTopic"`
}

// URI renders the pairing URI a peer needs to adopt this session's
// handshake topic, bridge, and key.
func (s Session) URI() wcuri.URI {
	return wcuri.URI{
		HandshakeTopic: s.HandshakeTopic,
		Bridge:         s.Bridge,
		Key:            s.Key,
	}
}

// Request builds the wc_sessionRequest params this session's owner sends
// to announce itself to the peer.
func (s Session) Request() protocol.SessionRequest {
	return protocol.SessionRequest{
		ChainID:  s.ChainID,
		PeerID:   s.ClientID,
		PeerMeta: s.ClientMeta,
	}
}

// Apply updates the session from a successful wc_sessionRequest reply.
func (s *Session) Apply(params protocol.SessionParams) {
	s.Connected = params.Approved
	s.Accounts = params.Accounts
	chainID := params.ChainID
	s.ChainID = &chainID
	peerID := params.PeerID
	s.PeerID = &peerID
	peerMeta := params.PeerMeta
	s.PeerMeta = &peerMeta
}

// ApplyUpdate updates the session from an inbound wc_sessionUpdate.
// peer_id is preserved — an update never changes who the peer is.
func (s *Session) ApplyUpdate(update protocol.SessionUpdate) {
	s.Connected = update.Approved
	s.Accounts = update.Accounts
	chainID := update.ChainID
	s.ChainID = &chainID
}
