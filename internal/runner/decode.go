package runner

import (
	"bytes"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeOutput converts raw tool output to a UTF-8 string.
// wsl.exe and some Windows tools write UTF-16LE; that is detected from a BOM
// or NUL-interleaved ASCII and transcoded. CRLF line endings become LF.
func DecodeOutput(b []byte) string {
	if looksUTF16LE(b) {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		if out, _, err := transform.Bytes(dec, b); err == nil {
			b = out
		}
	}
	b = bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))
	return string(bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n")))
}

func looksUTF16LE(b []byte) bool {
	if len(b) >= 2 && b[0] == 0xff && b[1] == 0xfe {
		return true
	}
	if len(b) < 4 || len(b)%2 != 0 {
		return false
	}
	return b[0] != 0 && b[1] == 0 && b[2] != 0 && b[3] == 0
}
