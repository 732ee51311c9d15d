package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/walletconnect-go/connector/internal/wclog"
	"github.com/walletconnect-go/connector/pkg/protocol"
	"github.com/walletconnect-go/connector/pkg/socket"
	"github.com/walletconnect-go/connector/pkg/storage"
)

// silentByMethod governs whether the relay should push-notify the peer
// wallet for a given outbound method. Housekeeping traffic (session
// setup/teardown) is silent; anything the user needs to act on is not.
func silentByMethod(method string) bool {
	switch method {
	case "eth_sendTransaction", "eth_signTransaction", "eth_sign",
		"eth_signTypedData", "eth_signTypedData_v1", "eth_signTypedData_v3", "eth_signTypedData_v4",
		"personal_sign":
		return false
	default:
		return true
	}
}

// Connector owns a persistent encrypted session with a peer via a relay,
// multiplexes JSON-RPC request/response traffic over it with at-most-one
// reply per request, and keeps session state on disk coherent with
// in-memory state.
type Connector struct {
	nextID atomic.Int64

	mu             sync.Mutex
	session        *storage.Store[Session]
	pending        map[protocol.RequestID]chan protocol.Output
	sessionPending bool

	socket *socket.Socket
	logger wclog.Logger
}

// New loads or creates the session described by opts, dials the relay,
// and subscribes to the topics this side of the pairing needs to hear on.
func New(ctx context.Context, opts Options, logger wclog.Logger) (*Connector, error) {
	if logger == nil {
		logger = wclog.NewNop()
	}

	path := storage.ProfilePath(storage.DefaultCacheDir(), opts.Profile)
	session, fresh, err := loadOrCreateSession(path, opts)
	if err != nil {
		return nil, fmt.Errorf("connector: resolve session: %w", err)
	}

	store := storage.New(path, session, logger)
	if fresh {
		store.Save()
	}

	c := &Connector{
		session: store,
		pending: make(map[protocol.RequestID]chan protocol.Output),
		logger:  logger,
	}

	sock, err := socket.Dial(ctx, session.Bridge, session.Key, c.handleMessage, logger)
	if err != nil {
		return nil, fmt.Errorf("connector: dial relay: %w", err)
	}
	c.socket = sock

	if err := sock.Subscribe(session.ClientID); err != nil {
		return nil, fmt.Errorf("connector: subscribe client_id: %w", err)
	}
	if uriConn, ok := opts.Connection.(URIConnection); ok {
		if err := sock.Subscribe(uriConn.URI.HandshakeTopic); err != nil {
			return nil, fmt.Errorf("connector: subscribe handshake_topic: %w", err)
		}
	}

	return c, nil
}

func loadOrCreateSession(path string, opts Options) (Session, bool, error) {
	loaded, err := storage.Load[Session](path)
	if err == nil && opts.Matches(loaded) {
		return loaded, false, nil
	}
	fresh, err := opts.CreateSession()
	if err != nil {
		return Session{}, false, err
	}
	return fresh, true, nil
}

// Accounts returns the approved accounts and chain ID, failing with
// ErrNotConnected until a session has been approved.
func (c *Connector) Accounts() ([]protocol.Address, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session := c.session.Value()
	if !session.Connected {
		return nil, 0, ErrNotConnected
	}
	return session.Accounts, derefChainID(session.ChainID), nil
}

func derefChainID(v *uint64) uint64 {
	if v == nil {
		return 0
	}
	return *v
}

// allocateID hands out the next monotonic request ID. Exposed so callers
// that need the ID ahead of the reply (CreateSession persists it as
// handshake_id) don't have to guess what call() picked.
func (c *Connector) allocateID() protocol.RequestID {
	return protocol.RequestID(c.nextID.Add(1) - 1)
}

// call performs one JSON-RPC round trip under a caller-supplied ID:
// register a waiter, publish, and wait for the matching Output. The
// Context mutex is never held while waiting for the reply.
func (c *Connector) call(ctx context.Context, id protocol.RequestID, method string, param any) (protocol.Output, error) {
	c.mu.Lock()
	session := c.session.Value()
	topic := session.HandshakeTopic
	if session.PeerID != nil {
		topic = *session.PeerID
	}
	c.mu.Unlock()

	call, err := protocol.NewMethodCall(id, method, param)
	if err != nil {
		return protocol.Output{}, fmt.Errorf("connector: build call: %w", err)
	}
	payload, err := json.Marshal(call)
	if err != nil {
		return protocol.Output{}, fmt.Errorf("connector: marshal call: %w", err)
	}

	waiter := make(chan protocol.Output, 1)
	c.mu.Lock()
	if _, exists := c.pending[id]; exists {
		c.mu.Unlock()
		panic("connector: request id collision")
	}
	c.pending[id] = waiter
	c.mu.Unlock()

	if err := c.socket.Publish(topic, payload, silentByMethod(method)); err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return protocol.Output{}, fmt.Errorf("connector: publish: %w", err)
	}

	select {
	case out := <-waiter:
		return out, nil
	case <-c.socket.Done():
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return protocol.Output{}, ErrCanceled
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return protocol.Output{}, ctx.Err()
	}
}

// handleMessage is the Socket's message handler: it dispatches each
// decrypted inbound frame either to the session-update path or to a
// pending request's waiter.
func (c *Connector) handleMessage(_ *socket.Socket, topic protocol.Topic, plaintext []byte) {
	if protocol.LooksLikeOutput(plaintext) {
		c.completeWaiter(plaintext)
		return
	}

	var call protocol.MethodCall
	if err := json.Unmarshal(plaintext, &call); err != nil {
		c.logger.Warnw("connector: malformed inbound frame", "topic", topic, "error", err)
		return
	}

	switch call.Method {
	case "wc_sessionUpdate":
		var update protocol.SessionUpdate
		if err := protocol.DecodeParams(call.Params, &update); err != nil {
			c.logger.Warnw("connector: malformed session update", "error", err)
			return
		}
		c.mu.Lock()
		c.session.Update(func(s *Session) { s.ApplyUpdate(update) })
		c.mu.Unlock()
	default:
		c.logger.Warnw("connector: unsupported inbound method", "method", call.Method, "error", ErrUnsupportedRequest)
	}
}

func (c *Connector) completeWaiter(plaintext []byte) {
	var out protocol.Output
	if err := json.Unmarshal(plaintext, &out); err != nil {
		c.logger.Warnw("connector: malformed inbound output", "error", err)
		return
	}

	c.mu.Lock()
	waiter, ok := c.pending[out.ID]
	if ok {
		delete(c.pending, out.ID)
	}
	c.mu.Unlock()

	if !ok {
		c.logger.Warnw("connector: response for unregistered request", "error", &UnregisteredIDError{ID: out.ID})
		return
	}
	// Buffered with capacity 1 and exactly one sender: never blocks. A
	// receiver that already gave up (context canceled) simply never reads
	// it, matching the tolerated "dropped waiter" semantics.
	waiter <- out
}

// EnsureSession returns the current accounts/chain if already connected;
// otherwise it renders the pairing URI via display (invoked exactly
// once) and performs the handshake.
func (c *Connector) EnsureSession(ctx context.Context, display func(uri string)) ([]protocol.Address, uint64, error) {
	c.mu.Lock()
	session := c.session.Value()
	if session.Connected {
		c.mu.Unlock()
		return session.Accounts, derefChainID(session.ChainID), nil
	}
	uri := session.URI()
	c.mu.Unlock()

	display(uri.String())
	return c.CreateSession(ctx)
}

// CreateSession issues wc_sessionRequest and blocks until the peer
// replies. It fails immediately if a session is already connected or a
// handshake is already in flight.
func (c *Connector) CreateSession(ctx context.Context) ([]protocol.Address, uint64, error) {
	c.mu.Lock()
	session := c.session.Value()
	if session.Connected {
		c.mu.Unlock()
		return nil, 0, ErrSessionConnected
	}
	if c.sessionPending {
		c.mu.Unlock()
		return nil, 0, ErrSessionPending
	}
	c.sessionPending = true
	params := session.Request()
	id := c.allocateID()
	c.session.Update(func(s *Session) { s.HandshakeID = id })
	c.mu.Unlock()

	out, callErr := c.call(ctx, id, "wc_sessionRequest", params)

	c.mu.Lock()
	c.sessionPending = false
	c.mu.Unlock()

	if callErr != nil {
		return nil, 0, callErr
	}

	var sessionParams protocol.SessionParams
	if err := out.Into(&sessionParams); err != nil {
		return nil, 0, fmt.Errorf("connector: session request rejected: %w", err)
	}

	c.mu.Lock()
	c.session.Update(func(s *Session) { s.Apply(sessionParams) })
	result := c.session.Value()
	c.mu.Unlock()

	return result.Accounts, derefChainID(result.ChainID), nil
}

// UpdateSession pushes a new approval/accounts/chain state to the peer
// via wc_sessionUpdate, the outbound counterpart of the inbound update
// this connector already applies.
func (c *Connector) UpdateSession(ctx context.Context, accounts []protocol.Address, chainID uint64, approved bool) error {
	update := protocol.SessionUpdate{Approved: approved, Accounts: accounts, ChainID: chainID}

	out, err := c.call(ctx, c.allocateID(), "wc_sessionUpdate", update)
	if err != nil {
		return err
	}
	if err := out.Into(nil); err != nil {
		return err
	}

	c.mu.Lock()
	c.session.Update(func(s *Session) { s.ApplyUpdate(update) })
	c.mu.Unlock()
	return nil
}

// KillSession tells the peer the session is over (an unapproved
// wc_sessionUpdate, the conventional v1 teardown signal) and marks the
// local session disconnected regardless of whether the peer is even
// still listening. This is best-effort hang up: only the call's
// transport/context error is returned, any RPCError the peer sends back
// is ignored since the session is being torn down either way. The
// session key is zeroed once it is no longer needed.
func (c *Connector) KillSession(ctx context.Context) error {
	update := protocol.SessionUpdate{Approved: false}

	_, err := c.call(ctx, c.allocateID(), "wc_sessionUpdate", update)

	c.mu.Lock()
	c.session.Update(func(s *Session) {
		s.ApplyUpdate(update)
		s.Key.Zero()
	})
	c.mu.Unlock()

	return err
}

// SendTransaction awaits the peer's reply to eth_sendTransaction,
// returning the 32-byte transaction hash.
func (c *Connector) SendTransaction(ctx context.Context, tx protocol.Transaction) ([32]byte, error) {
	var hash [32]byte
	out, err := c.call(ctx, c.allocateID(), "eth_sendTransaction", tx)
	if err != nil {
		return hash, err
	}
	var hex string
	if err := out.Into(&hex); err != nil {
		return hash, err
	}
	return decodeFixedHex32(hex)
}

// SignTransaction returns the raw signed RLP bytes for tx without
// broadcasting it.
func (c *Connector) SignTransaction(ctx context.Context, tx protocol.Transaction) ([]byte, error) {
	return c.signBytes(ctx, "eth_signTransaction", tx)
}

// PersonalSign requests an EIP-191 personal_sign signature over data,
// returning the 65-byte r‖s‖v signature.
func (c *Connector) PersonalSign(ctx context.Context, data []string) ([]byte, error) {
	return c.signBytes(ctx, "personal_sign", data)
}

// Sign requests a raw eth_sign signature over data.
func (c *Connector) Sign(ctx context.Context, data []string) ([]byte, error) {
	return c.signBytes(ctx, "eth_sign", data)
}

// SignTypedData requests an eth_signTypedData (EIP-712, v1 dialect)
// signature.
func (c *Connector) SignTypedData(ctx context.Context, data []string) ([]byte, error) {
	return c.signBytes(ctx, "eth_signTypedData", data)
}

// SignTypedDataV3 requests an eth_signTypedData_v3 signature.
func (c *Connector) SignTypedDataV3(ctx context.Context, data []string) ([]byte, error) {
	return c.signBytes(ctx, "eth_signTypedData_v3", data)
}

// SignTypedDataV4 requests an eth_signTypedData_v4 signature.
func (c *Connector) SignTypedDataV4(ctx context.Context, data []string) ([]byte, error) {
	return c.signBytes(ctx, "eth_signTypedData_v4", data)
}

func (c *Connector) signBytes(ctx context.Context, method string, param any) ([]byte, error) {
	out, err := c.call(ctx, c.allocateID(), method, param)
	if err != nil {
		return nil, err
	}
	var hex string
	if err := out.Into(&hex); err != nil {
		return nil, err
	}
	return decodeHex(hex)
}

// Close shuts down the socket cleanly, waiting for its background loop
// to exit.
func (c *Connector) Close() error {
	return c.socket.Close()
}
