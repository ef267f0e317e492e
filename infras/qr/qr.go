package qr

//go:generate go run go.uber.org/mock/mockgen -source=./qr.go -destination=./mocks/qr_mock.go -package=mocks

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

const defaultSize = 256

// Encoder renders a payload string as a QR code PNG.
type Encoder interface {
	EncodePNG(payload string) ([]byte, error)
}

type encoderImpl struct {
	size int
}

func New() Encoder {
	return &encoderImpl{size: defaultSize}
}

func (e *encoderImpl) EncodePNG(payload string) ([]byte, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, e.size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}

	return png, nil
}
