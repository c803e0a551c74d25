package host

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// DecodeLegacyText converts a byte buffer a NativeFn receives from a
// legacy host source (text files, env vars, or other Windows-1252
// tooling the host embeds) into UTF-8, the only encoding language
// String values may hold. Grounded on internal/reader/value.go's
// ASCII-fast-path/Windows-1252-slow-path split for the same reason:
// the overwhelmingly common case is already valid ASCII and needs no
// decoder at all.
func DecodeLegacyText(data []byte) (string, error) {
	if isASCII(data) {
		return string(data), nil
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("host: decoding legacy text: %w", err)
	}
	return string(decoded), nil
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 {
			return false
		}
	}
	return true
}
