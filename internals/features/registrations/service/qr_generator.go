// file: internals/features/registrations/service/qr_generator.go
package service

import (
	"errors"

	helper "campushub_backend/internals/helpers"
)

// URLQRGenerator: implementasi QRGenerator berbasis layanan QR eksternal —
// reference yang disimpan adalah URL image, bukan byte hasil render.
type URLQRGenerator struct {
	BaseURL string
}

func (g *URLQRGenerator) Generate(payload []byte) (string, error) {
	if len(payload) == 0 {
		return "", errors.New("payload QR kosong")
	}
	return helper.QRImageURL(g.BaseURL, payload), nil
}
