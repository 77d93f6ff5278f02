package fetcher

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/agentstation/shelf/pkg/catalog"
)

// Hash returns a content hash of a page's listings. Two parses hash the
// same exactly when they hold the same tuples in the same order.
func Hash(listings []catalog.RawListing) string {
	h := sha256.New()
	for _, l := range listings {
		h.Write([]byte(l.Name))
		h.Write([]byte{0x1f})
		h.Write([]byte(l.Href))
		h.Write([]byte{0x1f})
		h.Write([]byte(l.Price))
		h.Write([]byte{0x1e})
	}
	return hex.EncodeToString(h.Sum(nil))
}
