package wcrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/walletconnect-go/connector/internal/wchex"
)

// ivSize is the AES block size used as the CBC initialization vector length.
const ivSize = aes.BlockSize // 16

// ErrVerify is returned by Open when the HMAC does not match — a hard
// integrity failure that must never be silently recovered into a
// "successful" decryption.
var ErrVerify = errors.New("wcrypto: payload failed integrity verification")

// EncryptionPayload is the sealed envelope carried inside a SocketMessage:
// AES-256-CBC ciphertext plus the IV it was encrypted with, plus an
// HMAC-SHA256 computed over ciphertext‖iv. All three fields are lowercase
// hex on the wire.
type EncryptionPayload struct {
	Data []byte
	IV   []byte
	HMAC []byte
}

type encryptionPayloadJSON struct {
	Data string `json:"data"`
	IV   string `json:"iv"`
	HMAC string `json:"hmac"`
}

// MarshalJSON renders each field as lowercase hex.
func (p EncryptionPayload) MarshalJSON() ([]byte, error) {
	return json.Marshal(encryptionPayloadJSON{
		Data: wchex.Encode(p.Data),
		IV:   wchex.Encode(p.IV),
		HMAC: wchex.Encode(p.HMAC),
	})
}

// UnmarshalJSON parses each field from lowercase (or mixed-case) hex.
func (p *EncryptionPayload) UnmarshalJSON(data []byte) error {
	var raw encryptionPayloadJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d, err := wchex.Decode(raw.Data)
	if err != nil {
		return fmt.Errorf("wcrypto: decode data: %w", err)
	}
	iv, err := wchex.Decode(raw.IV)
	if err != nil {
		return fmt.Errorf("wcrypto: decode iv: %w", err)
	}
	h, err := wchex.Decode(raw.HMAC)
	if err != nil {
		return fmt.Errorf("wcrypto: decode hmac: %w", err)
	}
	p.Data, p.IV, p.HMAC = d, iv, h
	return nil
}

func hmacSHA256(key, data, iv []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	mac.Write(iv)
	return mac.Sum(nil)
}

// Seal encrypts plaintext under k using a freshly generated random IV, and
// authenticates the result with HMAC-SHA256(k, ciphertext‖iv).
func (k Key) Seal(plaintext []byte) (EncryptionPayload, error) {
	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return EncryptionPayload{}, fmt.Errorf("wcrypto: generate iv: %w", err)
	}

	block, err := aes.NewCipher(k.raw[:])
	if err != nil {
		return EncryptionPayload{}, fmt.Errorf("wcrypto: new cipher: %w", err)
	}

	padded := pkcs7Pad(plaintext, block.BlockSize())
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	mac := hmacSHA256(k.raw[:], ciphertext, iv)

	return EncryptionPayload{Data: ciphertext, IV: iv, HMAC: mac}, nil
}

// Open verifies the HMAC over payload.Data‖payload.IV before decrypting.
// A mismatch returns ErrVerify and performs no decryption.
func (k Key) Open(payload EncryptionPayload) ([]byte, error) {
	expected := hmacSHA256(k.raw[:], payload.Data, payload.IV)
	if !hmac.Equal(expected, payload.HMAC) {
		return nil, ErrVerify
	}

	if len(payload.IV) != ivSize {
		return nil, fmt.Errorf("wcrypto: invalid iv length %d", len(payload.IV))
	}
	if len(payload.Data) == 0 || len(payload.Data)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("wcrypto: invalid ciphertext length %d", len(payload.Data))
	}

	block, err := aes.NewCipher(k.raw[:])
	if err != nil {
		return nil, fmt.Errorf("wcrypto: new cipher: %w", err)
	}

	padded := make([]byte, len(payload.Data))
	cipher.NewCBCDecrypter(block, payload.IV).CryptBlocks(padded, payload.Data)

	return pkcs7Unpad(padded)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("wcrypto: empty plaintext")
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > len(data) {
		return nil, errors.New("wcrypto: invalid padding")
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, errors.New("wcrypto: invalid padding")
		}
	}
	return data[:len(data)-padLen], nil
}
