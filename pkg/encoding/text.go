// Package encoding provides text decoding for Oolite mesh and index files.
package encoding

import (
	"bytes"
	"fmt"
	"strings"

	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Default is the charset used when none is configured.
const Default = "utf-8"

var charsets = map[string]xenc.Encoding{
	"utf-8":        xenc.Nop,
	"utf8":         xenc.Nop,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"euc-kr":       korean.EUCKR,
}

// Supported reports whether charset is a known name.
func Supported(charset string) bool {
	_, ok := charsets[normalize(charset)]
	return ok
}

// Decode converts data in the given charset to a UTF-8 string. A UTF-8 or
// UTF-16 byte order mark overrides the charset and is removed.
func Decode(data []byte, charset string) (string, error) {
	enc, ok := charsets[normalize(charset)]
	if !ok {
		return "", fmt.Errorf("unsupported charset %q", charset)
	}

	decoder := unicode.BOMOverride(enc.NewDecoder())
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", fmt.Errorf("decoding %s text: %w", charset, err)
	}
	return string(result), nil
}

// Encode converts a UTF-8 string to the given charset. Used for writing
// companion files in the same charset as their source.
func Encode(s string, charset string) ([]byte, error) {
	enc, ok := charsets[normalize(charset)]
	if !ok {
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}

	result, _, err := transform.Bytes(enc.NewEncoder(), []byte(s))
	if err != nil {
		return nil, fmt.Errorf("encoding %s text: %w", charset, err)
	}
	return result, nil
}

// TrimNullBytes removes trailing null bytes, which some exporters leave at
// the end of text files.
func TrimNullBytes(data []byte) []byte {
	return bytes.TrimRight(data, "\x00")
}

func normalize(charset string) string {
	if charset == "" {
		return Default
	}
	return strings.ToLower(strings.TrimSpace(charset))
}
