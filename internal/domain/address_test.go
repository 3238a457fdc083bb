package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyAddress(t *testing.T) {
	tests := []struct {
		token  string
		addr   string
		family AddressFamily
	}{
		{"172.20.11.89/20", "172.20.11.89", FamilyIPv4},
		{"fe80::1/64", "fe80::1", FamilyIPv6},
		{"10.0.0.5", "10.0.0.5", FamilyIPv4},
		{"::1", "::1", FamilyIPv6},
		{" 192.168.1.1/24 ", "192.168.1.1", FamilyIPv4},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			addr, family := ClassifyAddress(tt.token)
			assert.Equal(t, tt.addr, addr)
			assert.Equal(t, tt.family, family)
		})
	}
}

func TestNormalizeMAC(t *testing.T) {
	assert.Equal(t, "00:15:5d:12:34:56", NormalizeMAC("00-15-5D-12-34-56"))
	assert.Equal(t, "00:15:5d:12:34:56", NormalizeMAC("00:15:5d:12:34:56"))
	assert.Equal(t, "", NormalizeMAC("  "))

	for _, in := range []string{"00-15-5D-12-34-56", "AA:BB:CC:DD:EE:FF", "0a-0b-0c-0d-0e-0f"} {
		once := NormalizeMAC(in)
		assert.Equal(t, once, NormalizeMAC(once), "normalizing %q twice", in)
	}
}

func TestIsMAC(t *testing.T) {
	assert.True(t, IsMAC("00:15:5d:12:34:56"))
	assert.False(t, IsMAC("<BROADCAST,UP>"))
	assert.False(t, IsMAC("00:15:5d"))
}

func TestValidPort(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"22", true},
		{"0", true},
		{"65535", true},
		{"65536", false},
		{"", false},
		{"*", false},
		{"http", false},
		{"-1", false},
	}

	for _, tt := range tests {
		if got := ValidPort(tt.in); got != tt.want {
			t.Errorf("ValidPort(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBoundAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.0.0.5:22", "10.0.0.5"},
		{"0.0.0.0:80", "0.0.0.0"},
		{"[::]:443", "::"},
		{":::22", "::"},
		{"*:5353", "*"},
		{"127.0.0.53%lo:53", "127.0.0.53"},
		{"::", "::"},
		{"192.168.1.1", "192.168.1.1"},
		{"fe80::1%eth0:546", "fe80::1"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, BoundAddress(tt.in))
		})
	}
}

func TestIsWildcard(t *testing.T) {
	assert.True(t, IsWildcard("0.0.0.0"))
	assert.True(t, IsWildcard("::"))
	assert.True(t, IsWildcard("*"))
	assert.False(t, IsWildcard("127.0.0.1"))
	assert.False(t, IsWildcard(""))
}
