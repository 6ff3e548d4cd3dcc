package qrcode

import qr "github.com/skip2/go-qrcode"

// Size is the edge length of generated images in pixels.
const Size = 256

// Generate creates a QR code PNG image for the given URL.
func Generate(url string) ([]byte, error) {
	return qr.Encode(url, qr.Medium, Size)
}
