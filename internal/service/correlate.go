package service

import "netscope/internal/domain"

// FilterPortsForInterface returns the bindings reachable through iface: those
// bound to one of its addresses, plus wildcard bindings. Matching is exact
// string equality on the bound address.
func FilterPortsForInterface(iface domain.NetworkInterface, ports []domain.PortBinding) []domain.PortBinding {
	addrs := make(map[string]struct{}, len(iface.IPv4)+len(iface.IPv6))
	for _, a := range iface.Addresses() {
		addrs[a] = struct{}{}
	}

	out := make([]domain.PortBinding, 0)
	for _, p := range ports {
		bound := domain.BoundAddress(p.Address)
		if domain.IsWildcard(bound) {
			out = append(out, p)
			continue
		}
		if _, ok := addrs[bound]; ok {
			out = append(out, p)
		}
	}
	return out
}
