// Package config provides configuration management for netscope.
//
// Config file locations (priority order):
//  1. $NETSCOPE_CONFIG
//  2. ./netscope.yaml
//  3. $XDG_CONFIG_HOME/netscope/config.yaml
//  4. ~/.config/netscope/config.yaml
//  5. /etc/netscope/config.yaml
//
// A missing file is not an error; defaults apply.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"netscope/internal/domain"
)

const (
	Auto = "auto"
	None = "none"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to path, creating its directory
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns the configuration used when no file is found
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Platform.Native == "" {
		c.Platform.Native = Auto
	}
	if c.Platform.Bridged == "" {
		c.Platform.Bridged = Auto
	}
	if c.Platform.Bridge == "" {
		c.Platform.Bridge = Auto
	}
	if c.SSH.Port == 0 {
		c.SSH.Port = 22
	}
	if c.SSH.ConnectTimeout == nil {
		c.SSH.ConnectTimeout = NewDuration(10 * time.Second)
	}
	if c.Timeouts.Default == nil {
		c.Timeouts.Default = NewDuration(10 * time.Second)
	}
	if c.Timeouts.PowerShell == nil {
		c.Timeouts.PowerShell = NewDuration(30 * time.Second)
	}
	if c.Timeouts.Docker == nil {
		c.Timeouts.Docker = NewDuration(15 * time.Second)
	}
	if c.Timeouts.Enrich == nil {
		c.Timeouts.Enrich = NewDuration(5 * time.Second)
	}
	if c.Docker.Transport == "" {
		c.Docker.Transport = "cli"
	}
	if c.Docker.Namespace == "" {
		c.Docker.Namespace = string(domain.EnvNative)
	}
	if c.Ports.MaxEnrich <= 0 {
		c.Ports.MaxEnrich = 32
	}
	if c.Ports.ProbePorts == "" {
		c.Ports.ProbePorts = "1-1024"
	}
	if c.Diagnostics.Path == "" {
		c.Diagnostics.Path = "./netscope-diagnostics.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = Auto
	}
}

// DisabledKinds returns the resource kinds switched off under sources
func (c *Config) DisabledKinds() map[domain.Kind]bool {
	disabled := make(map[domain.Kind]bool)
	flags := map[domain.Kind]*bool{
		domain.KindInterfaces:        c.Sources.Interfaces,
		domain.KindPorts:             c.Sources.Ports,
		domain.KindContainerNetworks: c.Sources.ContainerNetworks,
		domain.KindFirewallRules:     c.Sources.FirewallRules,
		domain.KindRoutes:            c.Sources.Routes,
	}
	for kind, enabled := range flags {
		if enabled != nil && !*enabled {
			disabled[kind] = true
		}
	}
	return disabled
}

// DockerEnv returns the environment the docker CLI runs in
func (c *Config) DockerEnv() domain.ExecutionEnvironment {
	if c.Docker.Namespace == string(domain.EnvBridged) {
		return domain.EnvBridged
	}
	return domain.EnvNative
}
