package decklist

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/lost-woods/mulligan/src/mtg"
)

// ExportMTGA renders the deck's composition in the MTG Arena import format.
// Cards listed with a zero count are skipped.
func ExportMTGA(d *mtg.Deck) string {
	var b strings.Builder
	b.WriteString("Deck\n")
	for _, e := range d.Entries() {
		if e.Count == 0 {
			continue
		}
		fmt.Fprintf(&b, "%d %s () 0\n", e.Count, e.Card.Name())
	}
	return b.String()
}

// QRCode encodes text as a square PNG of the given size in pixels.
func QRCode(text string, size int) ([]byte, error) {
	png, err := qrcode.Encode(text, qrcode.Medium, size)
	if err != nil {
		return nil, errors.Wrap(err, "encode qr code")
	}
	return png, nil
}
