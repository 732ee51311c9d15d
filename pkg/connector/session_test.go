package connector

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/walletconnect-go/connector/pkg/protocol"
	"github.com/walletconnect-go/connector/pkg/wcrypto"
)

func TestCreateSessionInvariants(t *testing.T) {
	opts := NewOptions("p", protocol.Metadata{Name: "dapp"})

	session, err := opts.CreateSession()
	require.NoError(t, err)
	require.NotEqual(t, session.ClientID, session.HandshakeTopic)
	require.Nil(t, session.PeerID)
	require.False(t, session.Connected)
	require.Empty(t, session.Accounts)
}

func TestOptionsMatchesIgnoresChainID(t *testing.T) {
	opts := NewOptions("p", protocol.Metadata{Name: "dapp", URL: "https://dapp.example"})
	session, err := opts.CreateSession()
	require.NoError(t, err)

	chainID := uint64(137)
	changed := opts
	changed.ChainID = &chainID

	require.True(t, changed.Matches(session), "changing only ChainID should still match the persisted session")
}

func TestOptionsMatchesRejectsDifferentMetadata(t *testing.T) {
	opts := NewOptions("p", protocol.Metadata{Name: "dapp"})
	session, err := opts.CreateSession()
	require.NoError(t, err)

	other := NewOptions("p", protocol.Metadata{Name: "different dapp"})
	require.False(t, other.Matches(session))
}

func TestOptionsMatchesRejectsDifferentBridge(t *testing.T) {
	opts := NewOptions("p", protocol.Metadata{Name: "dapp"})
	opts.Connection = BridgeConnection{Bridge: "https://bridge-a.example"}
	session, err := opts.CreateSession()
	require.NoError(t, err)

	other := opts
	other.Connection = BridgeConnection{Bridge: "https://bridge-b.example"}
	require.False(t, other.Matches(session))
}

func TestSessionApplyFromSessionParams(t *testing.T) {
	var s Session
	peerID := protocol.NewTopic()
	params := protocol.SessionParams{
		Approved: true,
		Accounts: []protocol.Address{{0x01}},
		ChainID:  1,
		PeerID:   peerID,
		PeerMeta: protocol.NewPeerMetadata(protocol.Metadata{Name: "wallet"}),
	}

	s.Apply(params)

	require.True(t, s.Connected)
	require.Equal(t, params.Accounts, s.Accounts)
	require.NotNil(t, s.ChainID)
	require.Equal(t, uint64(1), *s.ChainID)
	require.NotNil(t, s.PeerID)
	require.Equal(t, peerID, *s.PeerID)
	require.NotNil(t, s.PeerMeta)
	require.Equal(t, "wallet", s.PeerMeta.Metadata.Name)
}

func TestSessionApplyUpdatePreservesPeerID(t *testing.T) {
	peerID := protocol.NewTopic()
	s := Session{PeerID: &peerID}

	s.ApplyUpdate(protocol.SessionUpdate{Approved: false, Accounts: nil, ChainID: 5})

	require.False(t, s.Connected)
	require.NotNil(t, s.PeerID)
	require.Equal(t, peerID, *s.PeerID)
	require.Equal(t, uint64(5), *s.ChainID)
}

func TestSessionURIRoundTrip(t *testing.T) {
	key, err := wcrypto.Random()
	require.NoError(t, err)

	s := Session{
		HandshakeTopic: protocol.NewTopic(),
		Bridge:         "https://bridge.walletconnect.org",
		Key:            key,
	}

	uri := s.URI()
	require.Equal(t, s.HandshakeTopic, uri.HandshakeTopic)
	require.Equal(t, s.Bridge, uri.Bridge)
	require.Equal(t, s.Key.String(), uri.Key.String())
}
