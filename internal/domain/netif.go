package domain

import "strings"

// LoopbackPrefix marks loopback interfaces in brief listings
const LoopbackPrefix = "lo"

// NetworkInterface is one interface as seen from one environment.
// Name is unique within an environment, not globally.
type NetworkInterface struct {
	Name        string               `json:"name" yaml:"name"`
	IPv4        []string             `json:"ipv4" yaml:"ipv4"`
	IPv6        []string             `json:"ipv6" yaml:"ipv6"`
	MAC         string               `json:"mac,omitempty" yaml:"mac,omitempty"`
	IsUp        bool                 `json:"is_up" yaml:"is_up"`
	IsLoopback  bool                 `json:"is_loopback" yaml:"is_loopback"`
	Environment ExecutionEnvironment `json:"environment" yaml:"environment"`
}

// NewNetworkInterface returns an interface with empty, non-nil address lists
func NewNetworkInterface(name string, env ExecutionEnvironment) NetworkInterface {
	return NetworkInterface{
		Name:        name,
		IPv4:        []string{},
		IPv6:        []string{},
		Environment: env,
	}
}

// AddAddress classifies token and appends it to the matching list
func (n *NetworkInterface) AddAddress(token string) {
	addr, family := ClassifyAddress(token)
	if addr == "" {
		return
	}
	if family == FamilyIPv6 {
		n.IPv6 = append(n.IPv6, addr)
	} else {
		n.IPv4 = append(n.IPv4, addr)
	}
}

// Addresses returns the IPv4 addresses followed by the IPv6 addresses
func (n NetworkInterface) Addresses() []string {
	out := make([]string, 0, len(n.IPv4)+len(n.IPv6))
	out = append(out, n.IPv4...)
	out = append(out, n.IPv6...)
	return out
}

// IsLoopbackName applies the brief-listing name heuristic
func IsLoopbackName(name string) bool {
	return strings.HasPrefix(name, LoopbackPrefix)
}

// Selectable returns interfaces that are up and not loopback, in input order
func Selectable(ifaces []NetworkInterface) []NetworkInterface {
	out := make([]NetworkInterface, 0, len(ifaces))
	for _, iface := range ifaces {
		if iface.IsUp && !iface.IsLoopback {
			out = append(out, iface)
		}
	}
	return out
}
