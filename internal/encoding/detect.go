package encoding

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Charset names reported by Decode.
const (
	CharsetUTF8        = "UTF-8"
	CharsetUTF16LE     = "UTF-16LE"
	CharsetUTF16BE     = "UTF-16BE"
	CharsetWindows1252 = "windows-1252"
	CharsetISO88599    = "ISO-8859-9"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode converts a whole file to UTF-8 and reports the charset it was read as.
//
// Detection order:
//  1. BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. Content that is already valid UTF-8 is returned unchanged
//  3. Heuristic detection via chardet
//  4. Fallback to Windows-1252
func Decode(b []byte) ([]byte, string, error) {
	switch {
	case bytes.HasPrefix(b, bomUTF8):
		return b[len(bomUTF8):], CharsetUTF8, nil
	case bytes.HasPrefix(b, bomUTF16LE):
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), b, CharsetUTF16LE)
	case bytes.HasPrefix(b, bomUTF16BE):
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.UseBOM), b, CharsetUTF16BE)
	}

	if utf8.Valid(b) {
		return b, CharsetUTF8, nil
	}

	result, err := chardet.NewTextDetector().DetectBest(b)
	if err == nil && result.Charset == CharsetISO88599 {
		return decodeWith(charmap.ISO8859_9, b, CharsetISO88599)
	}

	// ISO-8859-1 is a subset of Windows-1252 for printable text.
	return decodeWith(charmap.Windows1252, b, CharsetWindows1252)
}

func decodeWith(e xenc.Encoding, b []byte, charset string) ([]byte, string, error) {
	out, err := e.NewDecoder().Bytes(b)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", charset, err)
	}

	return out, charset, nil
}
