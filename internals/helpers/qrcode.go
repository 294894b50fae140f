// file: internals/helpers/qrcode.go
package helper

import (
	"net/url"
	"strings"
)

// QRImageURL membangun opaque image reference untuk payload tiket
// lewat layanan QR eksternal. Payload tidak dirender di sini; yang
// disimpan di registrasi hanya reference-nya.
func QRImageURL(baseURL string, payload []byte) string {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = "https://api.qrserver.com/v1/create-qr-code/"
	}
	q := url.Values{}
	q.Set("size", "300x300")
	q.Set("data", string(payload))
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + q.Encode()
}
