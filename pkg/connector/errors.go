package connector

import (
	"errors"
	"fmt"

	"github.com/walletconnect-go/connector/pkg/protocol"
)

// ErrNotConnected is returned by Accounts while connected = false. The
// signing and sending methods do not check the connection state and
// return no such error.
var ErrNotConnected = errors.New("connector: not connected to peer")

// ErrSessionConnected is returned by CreateSession when a session is
// already approved.
var ErrSessionConnected = errors.New("connector: session already connected")

// ErrSessionPending is returned by CreateSession when a handshake is
// already in flight.
var ErrSessionPending = errors.New("connector: session already pending")

// ErrCanceled is returned when a pending request's waiter is dropped
// without a reply — typically because the socket died.
var ErrCanceled = errors.New("connector: request was canceled")

// ErrUnsupportedRequest is logged (not returned to any caller) when an
// inbound MethodCall names a method this connector does not handle.
var ErrUnsupportedRequest = errors.New("connector: unsupported inbound request")

// UnregisteredIDError is logged when an inbound Output carries a request
// ID with no matching waiter.
type UnregisteredIDError struct {
	ID protocol.RequestID
}

func (e *UnregisteredIDError) Error() string {
	return fmt.Sprintf("connector: response for unregistered request id %d", e.ID)
}
