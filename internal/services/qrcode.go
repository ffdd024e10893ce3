package services

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// QRCode рисует PNG с QR-кодом ссылки
func QRCode(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("qr code content is empty")
	}
	if size <= 0 {
		size = 256
	}

	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}
