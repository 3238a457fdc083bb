package collector

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestValidatePorts(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"80", false},
		{"80,443,8080", false},
		{"1-1024", false},
		{"22,80-443", false},
		{"0", true},
		{"65536", true},
		{"443-80", true},
		{"http", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := validatePorts(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProbeOptions(t *testing.T) {
	p := NewLoopbackProber(zerolog.Nop(),
		WithProbePorts("22,80-443"),
		WithProbeTimeout(5*time.Second),
		WithServiceDetection(true),
	)
	assert.Equal(t, "127.0.0.1", p.target)
	assert.Equal(t, "22,80-443", p.portRange)
	assert.Equal(t, 5*time.Second, p.timeout)
	assert.True(t, p.serviceDetection)

	bad := NewLoopbackProber(zerolog.Nop(), WithProbePorts("99999"), WithProbeTimeout(0), WithProbeTarget(""))
	assert.Equal(t, "1-1024", bad.portRange)
	assert.Equal(t, 30*time.Second, bad.timeout)
	assert.Equal(t, "127.0.0.1", bad.target)
}
