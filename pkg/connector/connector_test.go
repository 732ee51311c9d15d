package connector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/walletconnect-go/connector/internal/wclog"
	"github.com/walletconnect-go/connector/pkg/protocol"
	"github.com/walletconnect-go/connector/pkg/wcrypto"
	"github.com/walletconnect-go/connector/pkg/wcuri"
)

// stubRelay is a fake bridge: it ignores "sub" frames and answers every
// inbound "pub" call itself on the same topic (standing in for both relay
// and peer wallet) rather than forwarding to a second connection. A
// wc_sessionRequest is answered with the given sessionParams, any other
// method with "ok".
type stubRelay struct {
	server  *httptest.Server
	key     wcrypto.Key
	mu      sync.Mutex
	pubSeen int
}

func newStubRelay(t *testing.T, key wcrypto.Key, sessionParams protocol.SessionParams) *stubRelay {
	t.Helper()
	r := &stubRelay{key: key}

	upgrader := websocket.Upgrader{}
	r.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(w, req, nil)
		require.NoError(t, err)
		defer conn.Close()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var frame protocol.SocketMessage
			if err := json.Unmarshal(data, &frame); err != nil {
				continue
			}
			if frame.Kind != protocol.SocketMessagePub || frame.Payload == nil {
				continue
			}

			r.mu.Lock()
			r.pubSeen++
			r.mu.Unlock()

			plaintext, err := r.key.Open(*frame.Payload)
			require.NoError(t, err)

			var call protocol.MethodCall
			if err := json.Unmarshal(plaintext, &call); err != nil {
				continue
			}

			out := protocol.Output{ID: call.ID, JSONRPC: "2.0"}
			if call.Method == "wc_sessionRequest" {
				result, err := json.Marshal(sessionParams)
				require.NoError(t, err)
				out.Result = result
			} else {
				// Generic echo for any other method: enough for tests that
				// only care about request/response correlation, not about
				// a particular method's semantics.
				result, err := json.Marshal("ok")
				require.NoError(t, err)
				out.Result = result
			}

			outBytes, err := json.Marshal(out)
			require.NoError(t, err)
			sealed, err := r.key.Seal(outBytes)
			require.NoError(t, err)

			reply := protocol.SocketMessage{Topic: frame.Topic, Kind: protocol.SocketMessagePub, Payload: &sealed}
			replyBytes, err := json.Marshal(reply)
			require.NoError(t, err)

			_ = conn.WriteMessage(websocket.TextMessage, replyBytes)
		}
	}))

	t.Cleanup(r.server.Close)
	return r
}

func (r *stubRelay) url() string {
	return strings.Replace(r.server.URL, "http://", "ws://", 1)
}

func newTestOptions(t *testing.T, bridge string, key wcrypto.Key, handshakeTopic protocol.Topic) Options {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	return Options{
		Profile: "test-profile",
		Meta:    protocol.Metadata{Name: "test dapp"},
		Connection: URIConnection{URI: wcuri.URI{
			HandshakeTopic: handshakeTopic,
			Bridge:         bridge,
			Key:            key,
		}},
	}
}

// TestCreateSessionPairingFlow exercises S4: a stub relay answers the
// session request and the connector ends up connected with the approved
// accounts and chain.
func TestCreateSessionPairingFlow(t *testing.T) {
	key, err := wcrypto.Random()
	require.NoError(t, err)
	peerID := protocol.NewTopic()

	params := protocol.SessionParams{
		Approved: true,
		Accounts: []protocol.Address{mustAddress(t, "0x0000000000000000000000000000000000000001")},
		ChainID:  1,
		PeerID:   peerID,
		PeerMeta: protocol.NewPeerMetadata(protocol.Metadata{Name: "stub wallet"}),
	}

	relay := newStubRelay(t, key, params)
	opts := newTestOptions(t, relay.url(), key, protocol.NewTopic())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := New(ctx, opts, wclog.NewNop())
	require.NoError(t, err)
	defer c.Close()

	accounts, chainID, err := c.CreateSession(ctx)
	require.NoError(t, err)
	require.Equal(t, params.Accounts, accounts)
	require.Equal(t, uint64(1), chainID)

	gotAccounts, gotChainID, err := c.Accounts()
	require.NoError(t, err)
	require.Equal(t, params.Accounts, gotAccounts)
	require.Equal(t, uint64(1), gotChainID)
}

// TestCreateSessionRejectsDoublePair exercises S5: once connected, a
// second CreateSession call fails fast without another relay round trip.
func TestCreateSessionRejectsDoublePair(t *testing.T) {
	key, err := wcrypto.Random()
	require.NoError(t, err)

	params := protocol.SessionParams{
		Approved: true,
		Accounts: []protocol.Address{mustAddress(t, "0x0000000000000000000000000000000000000002")},
		ChainID:  1,
		PeerID:   protocol.NewTopic(),
		PeerMeta: protocol.NewPeerMetadata(protocol.Metadata{Name: "stub wallet"}),
	}

	relay := newStubRelay(t, key, params)
	opts := newTestOptions(t, relay.url(), key, protocol.NewTopic())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := New(ctx, opts, wclog.NewNop())
	require.NoError(t, err)
	defer c.Close()

	_, _, err = c.CreateSession(ctx)
	require.NoError(t, err)

	relay.mu.Lock()
	seenAfterFirst := relay.pubSeen
	relay.mu.Unlock()

	_, _, err = c.CreateSession(ctx)
	require.ErrorIs(t, err, ErrSessionConnected)

	relay.mu.Lock()
	defer relay.mu.Unlock()
	require.Equal(t, seenAfterFirst, relay.pubSeen, "double pair must not touch the relay")
}

func mustAddress(t *testing.T, s string) protocol.Address {
	t.Helper()
	a, err := protocol.ParseAddress(s)
	require.NoError(t, err)
	return a
}
