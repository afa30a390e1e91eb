package assets

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const qrImageSize = 256

// RenderQR renders the given content as a PNG QR code. Content is the
// auto-check-in URL, so any generic scanner app can trigger a check-in.
func RenderQR(content string) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	return png, nil
}
