// Package share renders the deck's share URL as a QR code into the page.
package share

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/ivlev/slidemotion/internal/dom"
)

// SelQR is the image element the QR code is installed into.
const SelQR = "#share-qr"

const qrSize = 256

// Attach encodes url as a QR PNG and installs it as a data URI on the
// share image. An empty url or a page without the share element is fine
// and does nothing.
func Attach(doc dom.Document, url string, log *zap.Logger) error {
	if url == "" {
		return nil
	}
	el, ok := doc.Query(SelQR)
	if !ok {
		log.Debug("share element missing, QR skipped")
		return nil
	}
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		return fmt.Errorf("encode share QR: %w", err)
	}
	el.SetAttr("src", "data:image/png;base64,"+base64.StdEncoding.EncodeToString(png))
	el.SetAttr("alt", url)
	return nil
}
