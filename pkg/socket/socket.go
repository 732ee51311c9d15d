// Package socket drives the WebSocket connection to a WalletConnect
// relay: subscribing and publishing topics, and running the background
// read loop that verifies, decrypts, and dispatches inbound frames.
package socket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/walletconnect-go/connector/internal/wclog"
	"github.com/walletconnect-go/connector/pkg/protocol"
	"github.com/walletconnect-go/connector/pkg/wcrypto"
)

// DialTimeout bounds the relay WebSocket handshake.
const DialTimeout = 30 * time.Second

// ErrUnsupportedScheme is returned when the relay URL's scheme cannot be
// upgraded to a WebSocket scheme.
var ErrUnsupportedScheme = errors.New("socket: unsupported relay scheme")

// Handler is invoked once per inbound frame, after HMAC verification and
// decryption. It is re-entrant with respect to Publish/Subscribe on the
// Socket passed to it — that is the "capability to send further frames"
// the design calls for.
type Handler func(s *Socket, topic protocol.Topic, plaintext []byte)

// Socket is a WebSocket client bound to one relay URL, sealing and
// opening frames under one session key.
type Socket struct {
	conn    *websocket.Conn
	key     wcrypto.Key
	handler Handler
	logger  wclog.Logger

	writeMu sync.Mutex

	done      chan struct{}
	closeOnce sync.Once
}

// Dial upgrades relayURL to a WebSocket scheme, connects, and starts the
// background read loop. The handler is invoked on that loop's goroutine
// for every frame that passes HMAC verification.
func Dial(ctx context.Context, relayURL string, key wcrypto.Key, handler Handler, logger wclog.Logger) (*Socket, error) {
	if logger == nil {
		logger = wclog.NewNop()
	}

	wsURL, err := upgradeScheme(relayURL)
	if err != nil {
		return nil, err
	}

	dialCtx, cancel := context.WithTimeout(ctx, DialTimeout)
	defer cancel()

	dialer := websocket.Dialer{HandshakeTimeout: DialTimeout}
	conn, resp, err := dialer.DialContext(dialCtx, wsURL, http.Header{})
	if err != nil {
		return nil, fmt.Errorf("socket: dial %s: %w", wsURL, err)
	}
	if resp != nil {
		_ = resp.Body.Close()
	}

	s := &Socket{
		conn:    conn,
		key:     key,
		handler: handler,
		logger:  logger,
		done:    make(chan struct{}),
	}
	go s.readLoop()

	return s, nil
}

// upgradeScheme maps http->ws and https->wss, leaving ws/wss untouched.
// Any other scheme is a hard error.
func upgradeScheme(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedScheme, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
		// already a WebSocket scheme
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	return u.String(), nil
}

// Done is closed once the read loop exits, whether from a clean Close or
// from the underlying connection failing.
func (s *Socket) Done() <-chan struct{} {
	return s.done
}

// Subscribe registers interest in topic: the relay will forward any
// future "pub" frames sent to it. No reply is expected.
func (s *Socket) Subscribe(topic protocol.Topic) error {
	return s.send(protocol.SocketMessage{
		Topic:  topic,
		Kind:   protocol.SocketMessageSub,
		Silent: true,
	})
}

// Publish seals plaintext under the socket's key and sends it as a "pub"
// frame to topic. silent controls whether the relay push-notifies the
// peer wallet.
func (s *Socket) Publish(topic protocol.Topic, plaintext []byte, silent bool) error {
	payload, err := s.key.Seal(plaintext)
	if err != nil {
		return fmt.Errorf("socket: seal: %w", err)
	}
	return s.send(protocol.SocketMessage{
		Topic:   topic,
		Kind:    protocol.SocketMessagePub,
		Payload: &payload,
		Silent:  silent,
	})
}

func (s *Socket) send(msg protocol.SocketMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("socket: marshal frame: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("socket: write frame: %w", err)
	}
	return nil
}

// Close shuts down the socket and waits for the read loop to exit.
func (s *Socket) Close() error {
	err := s.conn.Close()
	<-s.done
	return err
}

func (s *Socket) readLoop() {
	defer close(s.done)
	defer func() {
		s.closeOnce.Do(func() { _ = s.conn.Close() })
	}()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if !isCleanClose(err) {
				s.logger.Warnw("socket: read failed", "error", err)
			}
			return
		}
		s.dispatch(data)
	}
}

func (s *Socket) dispatch(data []byte) {
	var msg protocol.SocketMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.logger.Warnw("socket: malformed frame", "error", err)
		return
	}
	if msg.Kind != protocol.SocketMessagePub {
		s.logger.Warnw("socket: rejecting non-pub inbound frame", "kind", msg.Kind)
		return
	}
	if msg.Payload == nil {
		s.logger.Warnw("socket: inbound frame missing payload")
		return
	}

	plaintext, err := s.key.Open(*msg.Payload)
	if err != nil {
		s.logger.Warnw("socket: payload failed integrity verification", "topic", msg.Topic, "error", err)
		return
	}

	s.handler(s, msg.Topic, plaintext)
}

func isCleanClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
		errors.Is(err, websocket.ErrCloseSent)
}
