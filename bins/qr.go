package bins

import (
	"github.com/skip2/go-qrcode"
)

const qrSize = 256

func qrContent(id string) string {
	return "wastewise://bin/" + id
}

// QRCode renders the PNG label stuck on a physical bin.
func QRCode(id string) ([]byte, error) {
	return qrcode.Encode(qrContent(id), qrcode.Medium, qrSize)
}
