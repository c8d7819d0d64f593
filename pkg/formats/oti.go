// OTI (Oolite Texture Index) files: one texture file name per line, line i
// naming the texture at NAMES index i.
package formats

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// ParseOTI splits index file text into texture names. A trailing newline does
// not produce an extra entry.
func ParseOTI(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// ReadOTIFile reads an index file. A missing file is not an error and yields
// no names.
func ReadOTIFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading OTI file: %w", err)
	}
	return ParseOTI(string(data)), nil
}

// WriteOTI writes texture names one per line.
func WriteOTI(w io.Writer, names []string) error {
	_, err := io.WriteString(w, strings.Join(names, "\n"))
	return err
}
