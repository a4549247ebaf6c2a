// Package encoding normalises mesh and object names to UTF-8.
//
// glTF JSON must be UTF-8, but meshes authored with legacy Korean tools
// carry EUC-KR names in OBJ files and snapshots. Names that are already
// valid UTF-8 pass through untouched.
package encoding

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// EUCKRToUTF8 converts EUC-KR encoded bytes to a UTF-8 string.
// Returns the original bytes as a string if conversion fails.
func EUCKRToUTF8(data []byte) string {
	decoder := korean.EUCKR.NewDecoder()
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// Name converts a raw name to UTF-8. Trailing null bytes and surrounding
// whitespace are dropped. Invalid UTF-8 is decoded as EUC-KR, and any bytes
// that still do not form valid UTF-8 become U+FFFD.
func Name(data []byte) string {
	data = bytes.TrimRight(data, "\x00")
	data = bytes.TrimSpace(data)
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(EUCKRToUTF8(data), "\uFFFD")
}

// NameString is Name for string input.
func NameString(s string) string {
	return Name([]byte(s))
}

// MeshName returns the normalised name, or fallback when it is empty.
func MeshName(s, fallback string) string {
	if n := NameString(s); n != "" {
		return n
	}
	return fallback
}
