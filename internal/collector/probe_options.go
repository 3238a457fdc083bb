package collector

import "time"

// ProbeOption configures a LoopbackProber
type ProbeOption func(*LoopbackProber)

// WithProbePorts sets the ports to scan.
// Format: "80,443,8080" or "1-1000" or "22,80-443,8080". Invalid lists are ignored.
func WithProbePorts(ports string) ProbeOption {
	return func(p *LoopbackProber) {
		if validated, err := validatePorts(ports); err == nil {
			p.portRange = validated
		}
	}
}

// WithProbeTimeout bounds the whole scan
func WithProbeTimeout(d time.Duration) ProbeOption {
	return func(p *LoopbackProber) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithProbeTarget overrides the loopback address, e.g. "::1"
func WithProbeTarget(target string) ProbeOption {
	return func(p *LoopbackProber) {
		if target != "" {
			p.target = target
		}
	}
}

// WithServiceDetection enables nmap service detection (-sV)
func WithServiceDetection(enabled bool) ProbeOption {
	return func(p *LoopbackProber) {
		p.serviceDetection = enabled
	}
}
