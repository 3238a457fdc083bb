package parser

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// lines splits output into trimmed, non-empty lines
func lines(out string) []string {
	raw := strings.Split(out, "\n")
	result := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			result = append(result, l)
		}
	}
	return result
}

// decodeRecords decodes a JSON array of T, falling back to a single T object.
// PowerShell's ConvertTo-Json emits a bare object when there is one result.
func decodeRecords[T any](out string) []T {
	data := bytes.TrimSpace([]byte(out))
	if len(data) == 0 {
		return nil
	}

	var many []T
	if err := json.Unmarshal(data, &many); err == nil {
		return many
	}

	var one T
	if err := json.Unmarshal(data, &one); err == nil {
		return []T{one}
	}
	return nil
}

// flexString accepts a JSON string, number, bool or null as text.
// PowerShell renders enums and integers as numbers unless told otherwise.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*f = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case b[0] == '[':
		var parts []flexString
		if err := json.Unmarshal(b, &parts); err != nil {
			return err
		}
		strs := make([]string, 0, len(parts))
		for _, p := range parts {
			strs = append(strs, string(p))
		}
		*f = flexString(strings.Join(strs, ","))
	default:
		*f = flexString(b)
	}
	return nil
}

func (f flexString) String() string {
	return strings.TrimSpace(string(f))
}

// isDigits reports whether s is a non-empty run of ASCII digits
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseUint(s, 10, 64)
	return err == nil
}
