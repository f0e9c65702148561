// Package wordlist loads question/answer word lists from files.
package wordlist

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

var charmaps = map[string]encoding.Encoding{
	"iso8859-1":    charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"latin-1":      charmap.ISO8859_1,
	"iso8859-15":   charmap.ISO8859_15,
	"iso-8859-15":  charmap.ISO8859_15,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
}

// decode converts raw bytes in the named encoding to UTF-8. An empty name
// or a UTF-8 name returns the input unchanged.
func decode(raw []byte, name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "", "utf-8", "utf8":
		return strings.TrimPrefix(string(raw), "\ufeff"), nil
	}
	enc, ok := charmaps[name]
	if !ok {
		var err error
		enc, err = ianaindex.IANA.Encoding(name)
		if err != nil {
			return "", err
		}
		if enc == nil {
			return "", fmt.Errorf("encoding %q is not supported", name)
		}
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return string(out), nil
}
