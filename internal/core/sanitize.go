package core

import (
	"bytes"
	"unicode/utf8"
)

var replacementChar = []byte(string(utf8.RuneError))

// sanitizeUTF8 returns data as a string with each run of invalid UTF-8 bytes
// replaced by one U+FFFD. Spreadsheet tools sometimes re-save exports as
// Windows-1252, which would otherwise garble player names silently.
func sanitizeUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return string(bytes.ToValidUTF8(data, replacementChar))
}
