package lines

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/reviewboard/diffchunk"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultEncodings is used when a caller supplies no candidates.
var DefaultEncodings = []string{"utf-8"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode decodes data with the first candidate encoding that succeeds and
// returns the text and the name of the encoding used. Candidates are WHATWG
// encoding labels such as "utf-8", "iso-8859-15" or "windows-1252". It
// returns an error wrapping diffchunk.ErrUndecodable if every candidate
// fails.
func Decode(data []byte, candidates []string) (string, string, error) {
	if len(candidates) == 0 {
		candidates = DefaultEncodings
	}
	for _, name := range candidates {
		text, ok := decodeWith(data, name)
		if ok {
			return text, name, nil
		}
	}
	return "", "", fmt.Errorf("%w: tried %s", diffchunk.ErrUndecodable, strings.Join(candidates, ", "))
}

func decodeWith(data []byte, name string) (string, bool) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", false
	}
	if isUTF8(name) {
		data = bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(data) {
			return "", false
		}
		return string(data), true
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	// Decoders substitute U+FFFD for bytes they cannot map.
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", false
	}
	return string(out), true
}

func isUTF8(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8", "unicode-1-1-utf-8":
		return true
	}
	return false
}
