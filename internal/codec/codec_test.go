package codec

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netscope/internal/collector"
	"netscope/internal/domain"
)

func sampleSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		CycleID:     "8f5c2a4e-0c71-4a55-9a3b-3f1f0b6f2d11",
		CollectedAt: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC),
		Interfaces: []domain.NetworkInterface{{
			Name: "eth0", IPv4: []string{"10.0.0.5"}, IPv6: []string{}, MAC: "aa:bb:cc:dd:ee:ff",
			IsUp: true, Environment: domain.EnvNative,
		}},
		Ports: []domain.PortBinding{{
			ProcessID: "812", ProcessName: "sshd", Protocol: "TCP", Port: "22",
			State: "LISTEN", Address: "0.0.0.0:22", Environment: domain.EnvNative,
		}},
		ContainerNetworks: []domain.ContainerNetwork{},
		FirewallRules:     []domain.FirewallRule{},
		Routes:            []domain.Route{{Destination: "default", Gateway: "10.0.0.1", Interface: "eth0", Environment: domain.EnvBridged}},
		Causes:            map[domain.Kind]string{domain.KindFirewallRules: "native: iptables: launch failed"},
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format  string
		want    string
		wantErr bool
	}{
		{"json", "json", false},
		{"yaml", "yaml", false},
		{"yml", "yaml", false},
		{"table", "table", false},
		{"", "table", false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			exp, err := ForFormat(tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, exp.Format())
		})
	}

	_, err := ImporterFor("table")
	assert.Error(t, err)
}

func TestSnapshotThroughJSONAndYAML(t *testing.T) {
	for _, c := range []interface {
		Exporter
		Importer
	}{NewJSONCodec(), NewYAMLCodec()} {
		t.Run(c.Format(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, c.Export(sampleSnapshot(), &buf))

			got, err := c.Parse(&buf)
			require.NoError(t, err)
			assert.Equal(t, sampleSnapshot().Ports, got.Ports)
			assert.Equal(t, sampleSnapshot().Routes, got.Routes)
			assert.Equal(t, "native: iptables: launch failed", got.Causes[domain.KindFirewallRules])
			assert.True(t, sampleSnapshot().CollectedAt.Equal(got.CollectedAt))
		})
	}
}

func TestJSONFieldNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONCodec().Export(sampleSnapshot().Ports, &buf))

	out := buf.String()
	assert.Contains(t, out, `"process_name": "sshd"`)
	assert.Contains(t, out, `"environment": "native"`)
}

func TestTableExport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableCodec().Export(sampleSnapshot().Ports, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ENV"))
	assert.Contains(t, lines[1], "sshd")
	assert.Contains(t, lines[1], "0.0.0.0:22")
}

func TestTableSnapshotSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableCodec().Export(sampleSnapshot(), &buf))

	out := buf.String()
	assert.Contains(t, out, "cycle 8f5c2a4e")
	assert.Contains(t, out, "ports:")
	assert.Contains(t, out, "firewall_rules:  native: iptables: launch failed")
}

func TestTableUnsupported(t *testing.T) {
	err := NewTableCodec().Export(42, &bytes.Buffer{})
	assert.ErrorContains(t, err, "not supported")
}

func TestTableFailures(t *testing.T) {
	var buf bytes.Buffer
	err := NewTableCodec().Export([]collector.Failure{{
		Environment: domain.EnvNative,
		Kind:        domain.KindRoutes,
		Step:        "ip route",
		Cause:       "timed out",
		At:          time.Now(),
	}}, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "timed out")
	assert.Contains(t, buf.String(), "ip route")
}
