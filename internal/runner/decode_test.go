package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeOutput(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"plain utf8", []byte("eth0 UP\n"), "eth0 UP\n"},
		{"crlf", []byte("a\r\nb\r\n"), "a\nb\n"},
		{"utf8 bom", []byte("\xef\xbb\xbf[]"), "[]"},
		{"utf16 with bom", []byte{0xff, 0xfe, 'o', 0, 'k', 0}, "ok"},
		{"utf16 without bom", []byte{'U', 0, 'b', 0, 'u', 0, '\r', 0, '\n', 0}, "Ubu\n"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeOutput(tt.in))
		})
	}
}
