// Package wcuri parses and emits the wc:{topic}@1?bridge=…&key=… pairing
// URI exchanged out-of-band (typically via QR code) between dapp and
// wallet.
package wcuri

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/walletconnect-go/connector/pkg/protocol"
	"github.com/walletconnect-go/connector/pkg/wcrypto"
)

// version is the only WalletConnect URI version this module understands.
const version = 1

// ErrInvalidSessionURI is the single error returned for any parse
// failure. All failure modes collapse to this one opaque error so
// callers cannot probe for structural detail about a malformed URI.
var ErrInvalidSessionURI = errors.New("wcuri: invalid session uri")

// URI is a parsed pairing URI: the handshake topic the initiator is
// waiting on, the relay bridge URL, and the shared symmetric key.
type URI struct {
	HandshakeTopic protocol.Topic
	Bridge         string
	Key            wcrypto.Key
}

// Parse validates and decodes a pairing URI string.
//
// Scheme must be "wc"; the path must be "{topic}@{version}" with version
// exactly 1; the query string must contain exactly "bridge" and "key",
// nothing else.
func Parse(raw string) (URI, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return URI{}, ErrInvalidSessionURI
	}
	if u.Scheme != "wc" {
		return URI{}, ErrInvalidSessionURI
	}

	topic, ver, ok := splitPath(u.Opaque)
	if !ok {
		// url.Parse treats "wc:topic@1" as an opaque URI (no "//"), so the
		// topic@version pair lives in u.Opaque, not u.Path.
		topic, ver, ok = splitPath(u.Path)
		if !ok {
			return URI{}, ErrInvalidSessionURI
		}
	}

	parsedVersion, err := strconv.ParseUint(ver, 10, 64)
	if err != nil || parsedVersion != version {
		return URI{}, ErrInvalidSessionURI
	}

	query := u.Query()
	if len(query) != 2 {
		return URI{}, ErrInvalidSessionURI
	}
	bridgeValues, hasBridge := query["bridge"]
	keyValues, hasKey := query["key"]
	if !hasBridge || !hasKey || len(bridgeValues) != 1 || len(keyValues) != 1 {
		return URI{}, ErrInvalidSessionURI
	}

	bridge, err := url.Parse(bridgeValues[0])
	if err != nil || bridge.Scheme == "" || bridge.Host == "" {
		return URI{}, ErrInvalidSessionURI
	}

	key, err := wcrypto.FromHex(keyValues[0])
	if err != nil {
		return URI{}, ErrInvalidSessionURI
	}

	return URI{
		HandshakeTopic: protocol.Topic(topic),
		Bridge:         bridgeValues[0],
		Key:            key,
	}, nil
}

// splitPath splits "{topic}@{version}" on the last '@'.
func splitPath(s string) (topic, ver string, ok bool) {
	if s == "" {
		return "", "", false
	}
	i := lastIndexByte(s, '@')
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

func lastIndexByte(s string, b byte) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// String emits the canonical pairing URI form.
func (u URI) String() string {
	v := url.Values{}
	v.Set("bridge", u.Bridge)
	v.Set("key", u.Key.String())
	return "wc:" + u.HandshakeTopic.String() + "@" + strconv.Itoa(version) + "?" + v.Encode()
}
