package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/walletconnect-go/connector/internal/wchex"
)

// SessionRequest is the params object of an outbound wc_sessionRequest
// call: the initiator announcing itself to the peer.
type SessionRequest struct {
	ChainID  *uint64  `json:"chainId"`
	PeerID   Topic    `json:"peerId"`
	PeerMeta Metadata `json:"peerMeta"`
}

// SessionParams is the params object of the peer's reply to
// wc_sessionRequest: whether it approved, and the resulting session facts.
// PeerMeta is decoded leniently (PeerMetadata, not Metadata): a peer
// sending a type-mismatched peerMeta must not sink an otherwise valid
// pairing reply.
type SessionParams struct {
	Approved bool         `json:"approved"`
	Accounts []Address    `json:"accounts"`
	ChainID  uint64       `json:"chainId"`
	PeerID   Topic        `json:"peerId"`
	PeerMeta PeerMetadata `json:"peerMeta"`
}

// SessionUpdate is the params object of an inbound wc_sessionUpdate call:
// the peer changing approval, accounts, or chain without a new handshake.
type SessionUpdate struct {
	Approved bool      `json:"approved"`
	Accounts []Address `json:"accounts"`
	ChainID  uint64    `json:"chainId"`
}

// Transaction is an Ethereum transaction request as passed to
// eth_sendTransaction / eth_signTransaction.
type Transaction struct {
	From     Address
	To       *Address // nil for contract creation; serializes as ""
	GasLimit Quantity
	GasPrice Quantity
	Value    Quantity
	Data     []byte // 0x-prefixed hex on the wire
	Nonce    Quantity
}

type transactionJSON struct {
	From     Address  `json:"from"`
	To       string   `json:"to"`
	GasLimit Quantity `json:"gasLimit"`
	GasPrice Quantity `json:"gasPrice"`
	Value    Quantity `json:"value"`
	Data     string   `json:"data"`
	Nonce    Quantity `json:"nonce"`
}

func (tx Transaction) MarshalJSON() ([]byte, error) {
	to := ""
	if tx.To != nil {
		to = tx.To.String()
	}
	return json.Marshal(transactionJSON{
		From:     tx.From,
		To:       to,
		GasLimit: tx.GasLimit,
		GasPrice: tx.GasPrice,
		Value:    tx.Value,
		Data:     "0x" + wchex.Encode(tx.Data),
		Nonce:    tx.Nonce,
	})
}

func (tx *Transaction) UnmarshalJSON(data []byte) error {
	var raw transactionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	tx.From = raw.From
	tx.To = nil
	if raw.To != "" {
		addr, err := ParseAddress(raw.To)
		if err != nil {
			return fmt.Errorf("protocol: transaction.to: %w", err)
		}
		tx.To = &addr
	}
	tx.GasLimit = raw.GasLimit
	tx.GasPrice = raw.GasPrice
	tx.Value = raw.Value

	raw.Data = trimHexPrefix(raw.Data)
	decoded, err := wchex.Decode(raw.Data)
	if err != nil {
		return fmt.Errorf("protocol: transaction.data: %w", err)
	}
	tx.Data = decoded
	tx.Nonce = raw.Nonce
	return nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
