package gamedata

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// decodeName returns s as-is if it is valid UTF-8, otherwise re-decodes the
// original bytes as Windows-1252 (the encoding the game's own static data
// files use for accented characters). This mirrors the teacher's own
// korean.EUCKR fallback in repparser.cString: sniff first, fall back to the
// known legacy encoding only when the sniff fails.
func decodeName(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}
