// Package qr renders a pairing URI as a QR code, either as terminal ASCII
// art or as a PNG, for out-of-band display to the wallet's camera.
package qr

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// Terminal renders uri as small ASCII-art QR code suitable for printing
// to a terminal.
func Terminal(uri string) (string, error) {
	code, err := qrcode.New(uri, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("qr: generate: %w", err)
	}
	return code.ToSmallString(false), nil
}

// PNG renders uri as a square PNG image of the given pixel size.
func PNG(uri string, size int) ([]byte, error) {
	png, err := qrcode.Encode(uri, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qr: encode png: %w", err)
	}
	return png, nil
}
