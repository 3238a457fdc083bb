package config

import "time"

// Config is the netscope configuration file
type Config struct {
	Version     int               `yaml:"version"`
	Platform    PlatformConfig    `yaml:"platform"`
	SSH         SSHConfig         `yaml:"ssh,omitempty"`
	Timeouts    TimeoutConfig     `yaml:"timeouts"`
	Docker      DockerConfig      `yaml:"docker"`
	Ports       PortsConfig       `yaml:"ports"`
	Sources     SourcesConfig     `yaml:"sources"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
	Log         LogConfig         `yaml:"log"`
}

// PlatformConfig binds environments to tool families.
// "auto" values are resolved from the running host.
type PlatformConfig struct {
	Native    string `yaml:"native"`  // auto, linux, windows
	Bridged   string `yaml:"bridged"` // auto, linux, windows, none
	Bridge    string `yaml:"bridge"`  // auto, none, wsl, interop, ssh
	WSLDistro string `yaml:"wsl_distro,omitempty"`
}

// SSHConfig holds the ssh bridge target. Secrets are read from KeyPath;
// Password is accepted for lab setups only.
type SSHConfig struct {
	Host           string    `yaml:"host,omitempty"`
	Port           int       `yaml:"port,omitempty"`
	User           string    `yaml:"user,omitempty"`
	KeyPath        string    `yaml:"key_path,omitempty"`
	Passphrase     string    `yaml:"passphrase,omitempty"`
	Password       string    `yaml:"password,omitempty"`
	ConnectTimeout *Duration `yaml:"connect_timeout,omitempty"`
}

// TimeoutConfig bounds tool invocations
type TimeoutConfig struct {
	Default    *Duration `yaml:"default,omitempty"`
	PowerShell *Duration `yaml:"powershell,omitempty"`
	Docker     *Duration `yaml:"docker,omitempty"`
	Enrich     *Duration `yaml:"enrich,omitempty"`
}

// DockerConfig selects how the container runtime is queried
type DockerConfig struct {
	Transport string `yaml:"transport"`           // cli or api
	Host      string `yaml:"host,omitempty"`      // Engine API endpoint, e.g. unix:///var/run/docker.sock
	Namespace string `yaml:"namespace,omitempty"` // environment the CLI runs in: native or bridged
}

// PortsConfig controls port collection extras
type PortsConfig struct {
	MaxEnrich   int       `yaml:"max_enrich"`
	ActiveProbe bool      `yaml:"active_probe"`
	ProbePorts  string    `yaml:"probe_ports,omitempty"`
	ProbeTarget string    `yaml:"probe_target,omitempty"`
	ProbeTime   *Duration `yaml:"probe_timeout,omitempty"`
}

// SourcesConfig enables or disables whole resource kinds. Nil means enabled.
type SourcesConfig struct {
	Interfaces        *bool `yaml:"interfaces,omitempty"`
	Ports             *bool `yaml:"ports,omitempty"`
	ContainerNetworks *bool `yaml:"container_networks,omitempty"`
	FirewallRules     *bool `yaml:"firewall_rules,omitempty"`
	Routes            *bool `yaml:"routes,omitempty"`
}

// DiagnosticsConfig controls the collection failure log
type DiagnosticsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LogConfig controls logging output
type LogConfig struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error
	Format string `yaml:"format"` // auto, console, json
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// NewDuration returns a pointer to d as a Duration
func NewDuration(d time.Duration) *Duration {
	v := Duration(d)
	return &v
}

// Or returns the duration, or def when d is nil
func (d *Duration) Or(def time.Duration) time.Duration {
	if d == nil {
		return def
	}
	return time.Duration(*d)
}
