package socket

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/walletconnect-go/connector/internal/wclog"
	"github.com/walletconnect-go/connector/pkg/protocol"
	"github.com/walletconnect-go/connector/pkg/wcrypto"
)

func TestUpgradeScheme(t *testing.T) {
	cases := map[string]string{
		"http://relay.example/ws":  "ws://relay.example/ws",
		"https://relay.example/ws": "wss://relay.example/ws",
		"ws://relay.example/ws":    "ws://relay.example/ws",
		"wss://relay.example/ws":   "wss://relay.example/ws",
	}
	for in, want := range cases {
		got, err := upgradeScheme(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestUpgradeSchemeRejectsUnknown(t *testing.T) {
	_, err := upgradeScheme("ftp://relay.example")
	require.ErrorIs(t, err, ErrUnsupportedScheme)
}

// newTestSocket builds a Socket with no live connection, sufficient for
// exercising dispatch() directly.
func newTestSocket(t *testing.T, key wcrypto.Key, handler Handler) *Socket {
	t.Helper()
	return &Socket{
		key:     key,
		handler: handler,
		logger:  wclog.NewNop(),
		done:    make(chan struct{}),
	}
}

func TestDispatchDecryptsAndInvokesHandler(t *testing.T) {
	key, err := wcrypto.Random()
	require.NoError(t, err)

	var mu sync.Mutex
	var gotTopic protocol.Topic
	var gotPlaintext []byte

	s := newTestSocket(t, key, func(_ *Socket, topic protocol.Topic, plaintext []byte) {
		mu.Lock()
		defer mu.Unlock()
		gotTopic = topic
		gotPlaintext = plaintext
	})

	payload, err := key.Seal([]byte(`{"id":1,"jsonrpc":"2.0","method":"wc_sessionUpdate","params":[]}`))
	require.NoError(t, err)

	frame := protocol.SocketMessage{Topic: "t1", Kind: protocol.SocketMessagePub, Payload: &payload}
	data, err := json.Marshal(frame)
	require.NoError(t, err)

	s.dispatch(data)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, protocol.Topic("t1"), gotTopic)
	require.Contains(t, string(gotPlaintext), "wc_sessionUpdate")
}

func TestDispatchDropsTamperedFrame(t *testing.T) {
	key, err := wcrypto.Random()
	require.NoError(t, err)

	called := false
	s := newTestSocket(t, key, func(_ *Socket, _ protocol.Topic, _ []byte) {
		called = true
	})

	payload, err := key.Seal([]byte("hello"))
	require.NoError(t, err)
	payload.HMAC[0] ^= 0xFF

	frame := protocol.SocketMessage{Topic: "t1", Kind: protocol.SocketMessagePub, Payload: &payload}
	data, err := json.Marshal(frame)
	require.NoError(t, err)

	s.dispatch(data)
	require.False(t, called)
}

func TestDispatchRejectsSubFrame(t *testing.T) {
	key, err := wcrypto.Random()
	require.NoError(t, err)

	called := false
	s := newTestSocket(t, key, func(_ *Socket, _ protocol.Topic, _ []byte) {
		called = true
	})

	frame := protocol.SocketMessage{Topic: "t1", Kind: protocol.SocketMessageSub, Silent: true}
	data, err := json.Marshal(frame)
	require.NoError(t, err)

	s.dispatch(data)
	require.False(t, called)
}

