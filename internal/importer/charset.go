package importer

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decoders maps chardet charset names to decoders. Anything unlisted falls back to
// Windows-1252, the usual encoding of spreadsheet exports.
var decoders = map[string]encoding.Encoding{
	"UTF-16LE":     unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"UTF-16BE":     unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-9":   charmap.ISO8859_9,
	"ISO-8859-15":  charmap.ISO8859_15,
}

// toUTF8 converts a statement in an unknown charset to UTF-8 and drops a UTF-8 BOM.
func toUTF8(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, utf8BOM):
		return data[len(utf8BOM):], nil
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return decode(decoders["UTF-16LE"], data)
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return decode(decoders["UTF-16BE"], data)
	case utf8.Valid(data):
		return data, nil
	}

	sample := data[:min(len(data), 4096)]

	if res, err := chardet.NewTextDetector().DetectBest(sample); err == nil {
		if enc, ok := decoders[res.Charset]; ok {
			return decode(enc, data)
		}
	}

	return decode(charmap.Windows1252, data)
}

func decode(enc encoding.Encoding, data []byte) ([]byte, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decoding statement: %w", err)
	}

	return out, nil
}
