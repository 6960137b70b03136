package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultEncoding is used when no encoding is named.
const DefaultEncoding = "utf-8"

var encodings = map[string]encoding.Encoding{
	"utf-8":        unicode.UTF8BOM,
	"utf8":         unicode.UTF8BOM,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"utf-16le":     unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"utf-16be":     unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
}

// LookupEncoding resolves an encoding name (case-insensitive). The empty
// name selects DefaultEncoding.
func LookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		name = DefaultEncoding
	}
	enc, ok := encodings[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

// Decode reads r completely and decodes it to a UTF-8 string.
func Decode(r io.Reader, encodingName string) (string, error) {
	enc, err := LookupEncoding(encodingName)
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(transform.NewReader(r, enc.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("failed to decode input as %s: %w", encodingName, err)
	}
	return string(data), nil
}

// TokenizeReader decodes the whole stream and tokenizes it. Errors only
// come from reading or decoding.
func TokenizeReader(r io.Reader, encodingName string) ([]Token, error) {
	src, err := Decode(r, encodingName)
	if err != nil {
		return nil, err
	}
	return Tokenize(src), nil
}

// TokenizeFile opens, reads and tokenizes the file at path.
func TokenizeFile(path, encodingName string) ([]Token, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the user
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return TokenizeReader(f, encodingName)
}
