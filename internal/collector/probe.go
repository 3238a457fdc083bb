package collector

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Ullaakut/nmap/v3"
	"github.com/rs/zerolog"

	"netscope/internal/domain"
	"netscope/internal/parser"
)

// LoopbackProber finds listening TCP ports by connect-scanning the loopback
// address with nmap. It is the last resort for the native port chain.
type LoopbackProber struct {
	target           string
	portRange        string
	timeout          time.Duration
	serviceDetection bool
	logger           zerolog.Logger
}

// NewLoopbackProber creates a prober with defaults and applies opts
func NewLoopbackProber(logger zerolog.Logger, opts ...ProbeOption) *LoopbackProber {
	p := &LoopbackProber{
		target:    "127.0.0.1",
		portRange: "1-1024",
		timeout:   30 * time.Second,
		logger:    logger.With().Str("component", "probe").Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe runs the scan and returns open ports
func (p *LoopbackProber) Probe(ctx context.Context) ([]domain.PortBinding, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	opts := []nmap.Option{
		nmap.WithTargets(p.target),
		nmap.WithPorts(p.portRange),
		nmap.WithConnectScan(),
		nmap.WithSkipHostDiscovery(),
	}
	if p.serviceDetection {
		opts = append(opts, nmap.WithServiceInfo())
	}

	scanner, err := nmap.NewScanner(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scanner: %w", err)
	}

	result, warnings, err := scanner.Run()
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	if warnings != nil && len(*warnings) > 0 {
		p.logger.Debug().Strs("warnings", *warnings).Msg("nmap warnings")
	}

	return parser.ParseNmapRun(result), nil
}

// validatePorts checks an nmap port list: "80,443,8080", "1-1000" or "22,80-443"
func validatePorts(portRange string) (string, error) {
	for _, part := range strings.Split(portRange, ",") {
		part = strings.TrimSpace(part)
		if lo, hi, isRange := strings.Cut(part, "-"); isRange {
			start, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil || start < 1 || start > 65535 {
				return "", fmt.Errorf("invalid port number: %s", lo)
			}
			end, err := strconv.Atoi(strings.TrimSpace(hi))
			if err != nil || end < 1 || end > 65535 || end < start {
				return "", fmt.Errorf("invalid port number: %s", hi)
			}
			continue
		}
		port, err := strconv.Atoi(part)
		if err != nil || port < 1 || port > 65535 {
			return "", fmt.Errorf("invalid port number: %s", part)
		}
	}
	return portRange, nil
}
