package domain

import "time"

// Snapshot is the result of one full refresh across every environment and kind.
// Causes holds a diagnostic per kind whose every source failed.
type Snapshot struct {
	CycleID           string             `json:"cycle_id" yaml:"cycle_id"`
	CollectedAt       time.Time          `json:"collected_at" yaml:"collected_at"`
	Interfaces        []NetworkInterface `json:"interfaces" yaml:"interfaces"`
	Ports             []PortBinding      `json:"ports" yaml:"ports"`
	ContainerNetworks []ContainerNetwork `json:"container_networks" yaml:"container_networks"`
	FirewallRules     []FirewallRule     `json:"firewall_rules" yaml:"firewall_rules"`
	Routes            []Route            `json:"routes" yaml:"routes"`
	Causes            map[Kind]string    `json:"causes,omitempty" yaml:"causes,omitempty"`
}

// Count returns the number of records collected for kind
func (s *Snapshot) Count(kind Kind) int {
	switch kind {
	case KindInterfaces:
		return len(s.Interfaces)
	case KindPorts:
		return len(s.Ports)
	case KindContainerNetworks:
		return len(s.ContainerNetworks)
	case KindFirewallRules:
		return len(s.FirewallRules)
	case KindRoutes:
		return len(s.Routes)
	}
	return 0
}
