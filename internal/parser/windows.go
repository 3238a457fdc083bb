package parser

import (
	"encoding/csv"
	"io"
	"net"
	"strconv"
	"strings"

	"netscope/internal/domain"
)

// NetAdapter is one Get-NetAdapter record
type NetAdapter struct {
	Name        string
	Description string
	Status      string
	MAC         string
}

// NetIPAddress is one Get-NetIPAddress record
type NetIPAddress struct {
	Alias   string
	Address string
	Family  domain.AddressFamily
}

type psAdapter struct {
	Name                 flexString `json:"Name"`
	InterfaceDescription flexString `json:"InterfaceDescription"`
	Status               flexString `json:"Status"`
	MacAddress           flexString `json:"MacAddress"`
}

type psIPAddress struct {
	InterfaceAlias flexString `json:"InterfaceAlias"`
	IPAddress      flexString `json:"IPAddress"`
	AddressFamily  flexString `json:"AddressFamily"`
}

// ParseNetAdapter parses Get-NetAdapter | ConvertTo-Json output
func ParseNetAdapter(out string) []NetAdapter {
	var adapters []NetAdapter
	for _, rec := range decodeRecords[psAdapter](out) {
		name := rec.Name.String()
		if name == "" {
			continue
		}
		adapters = append(adapters, NetAdapter{
			Name:        name,
			Description: rec.InterfaceDescription.String(),
			Status:      rec.Status.String(),
			MAC:         domain.NormalizeMAC(rec.MacAddress.String()),
		})
	}
	return adapters
}

// ParseNetIPAddress parses Get-NetIPAddress | ConvertTo-Json output.
// AddressFamily 2 is IPv4 and 23 is IPv6; anything else is classified from the address.
func ParseNetIPAddress(out string) []NetIPAddress {
	var addrs []NetIPAddress
	for _, rec := range decodeRecords[psIPAddress](out) {
		alias := rec.InterfaceAlias.String()
		addr := rec.IPAddress.String()
		if alias == "" || addr == "" {
			continue
		}
		if idx := strings.Index(addr, "%"); idx >= 0 {
			addr = addr[:idx]
		}

		var family domain.AddressFamily
		switch rec.AddressFamily.String() {
		case "2", "IPv4":
			family = domain.FamilyIPv4
		case "23", "IPv6":
			family = domain.FamilyIPv6
		default:
			_, family = domain.ClassifyAddress(addr)
		}
		addrs = append(addrs, NetIPAddress{Alias: alias, Address: addr, Family: family})
	}
	return addrs
}

// MergeNetAdapters joins address records with adapter records by alias.
// Interfaces are ordered by first appearance in addrs. An alias with no
// adapter record is assumed up.
func MergeNetAdapters(adapters []NetAdapter, addrs []NetIPAddress) []domain.NetworkInterface {
	byName := make(map[string]NetAdapter, len(adapters))
	for _, a := range adapters {
		byName[a.Name] = a
	}

	index := make(map[string]int)
	var ifaces []domain.NetworkInterface
	for _, addr := range addrs {
		i, ok := index[addr.Alias]
		if !ok {
			iface := domain.NewNetworkInterface(addr.Alias, "")
			iface.IsUp = true
			iface.IsLoopback = isLoopbackLabel(addr.Alias)
			if adapter, found := byName[addr.Alias]; found {
				iface.MAC = adapter.MAC
				iface.IsUp = strings.EqualFold(adapter.Status, "Up")
				iface.IsLoopback = iface.IsLoopback || isLoopbackLabel(adapter.Description)
			}
			ifaces = append(ifaces, iface)
			i = len(ifaces) - 1
			index[addr.Alias] = i
		}

		if addr.Family == domain.FamilyIPv6 {
			ifaces[i].IPv6 = append(ifaces[i].IPv6, addr.Address)
		} else {
			ifaces[i].IPv4 = append(ifaces[i].IPv4, addr.Address)
		}
	}
	return ifaces
}

type psTCPConnection struct {
	LocalAddress  flexString `json:"LocalAddress"`
	LocalPort     flexString `json:"LocalPort"`
	ProcessName   flexString `json:"ProcessName"`
	OwningProcess flexString `json:"OwningProcess"`
}

// isLoopbackLabel matches Windows loopback names such as
// "Loopback Pseudo-Interface 1" and "Microsoft KM-TEST Loopback Adapter"
func isLoopbackLabel(s string) bool {
	return strings.Contains(strings.ToLower(s), "loopback")
}

// ParseNetTCPConnection parses listening Get-NetTCPConnection records
func ParseNetTCPConnection(out string) []domain.PortBinding {
	var ports []domain.PortBinding
	for _, rec := range decodeRecords[psTCPConnection](out) {
		addr := rec.LocalAddress.String()
		port := rec.LocalPort.String()
		p, ok := domain.NewPortBinding(
			rec.OwningProcess.String(),
			rec.ProcessName.String(),
			"TCP",
			port,
			"LISTEN",
			domain.JoinHostPort(addr, port),
			"",
		)
		if ok {
			ports = append(ports, p)
		}
	}
	return ports
}

// ParseNetstatWindows parses `netstat -ano -p TCP` listening rows:
// Proto  Local Address  Foreign Address  State  PID
func ParseNetstatWindows(out string) []domain.PortBinding {
	var ports []domain.PortBinding
	for _, line := range lines(out) {
		fields := strings.Fields(line)
		if len(fields) < 5 || fields[0] != "TCP" || fields[3] != "LISTENING" {
			continue
		}
		local := fields[1]
		_, port, ok := domain.SplitHostPort(local)
		if !ok {
			continue
		}
		p, ok := domain.NewPortBinding(fields[4], "", "TCP", port, "LISTENING", local, "")
		if ok {
			ports = append(ports, p)
		}
	}
	return ports
}

// ParseTasklistCSV returns the image name from `tasklist /FO CSV /NH` output,
// or "" when no task matched.
func ParseTasklistCSV(out string) string {
	r := csv.NewReader(strings.NewReader(strings.TrimSpace(out)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return ""
		}
		if err != nil || len(rec) < 2 {
			continue
		}
		if !isDigits(strings.TrimSpace(rec[1])) {
			continue
		}
		return strings.TrimSpace(rec[0])
	}
}

type psFirewallRule struct {
	Name          flexString `json:"Name"`
	DisplayName   flexString `json:"DisplayName"`
	Enabled       flexString `json:"Enabled"`
	Direction     flexString `json:"Direction"`
	Action        flexString `json:"Action"`
	Protocol      flexString `json:"Protocol"`
	LocalAddress  flexString `json:"LocalAddress"`
	RemoteAddress flexString `json:"RemoteAddress"`
}

// ParseNetFirewallRule parses Get-NetFirewallRule | ConvertTo-Json output
func ParseNetFirewallRule(out string) []domain.FirewallRule {
	var rules []domain.FirewallRule
	for _, rec := range decodeRecords[psFirewallRule](out) {
		name := rec.DisplayName.String()
		if name == "" {
			name = rec.Name.String()
		}
		if name == "" {
			continue
		}
		rules = append(rules, domain.FirewallRule{
			Name:          name,
			Enabled:       rec.Enabled.String(),
			Direction:     rec.Direction.String(),
			Action:        rec.Action.String(),
			Protocol:      rec.Protocol.String(),
			LocalAddress:  rec.LocalAddress.String(),
			RemoteAddress: rec.RemoteAddress.String(),
		})
	}
	return rules
}

// ParseNetshRules parses `netsh advfirewall firewall show rule name=all`.
// Rules are blocks of "Key: value" lines starting at "Rule Name:".
func ParseNetshRules(out string) []domain.FirewallRule {
	var rules []domain.FirewallRule
	var cur *domain.FirewallRule

	flush := func() {
		if cur != nil && cur.Name != "" {
			rules = append(rules, *cur)
		}
		cur = nil
	}

	for _, line := range lines(out) {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if key == "Rule Name" {
			flush()
			cur = &domain.FirewallRule{Name: value}
			continue
		}
		if cur == nil {
			continue
		}
		switch key {
		case "Enabled":
			cur.Enabled = value
		case "Direction":
			cur.Direction = value
		case "Action":
			cur.Action = value
		case "Protocol":
			cur.Protocol = value
		case "LocalIP":
			cur.LocalAddress = value
		case "RemoteIP":
			cur.RemoteAddress = value
		}
	}
	flush()
	return rules
}

type psRoute struct {
	DestinationPrefix flexString `json:"DestinationPrefix"`
	NextHop           flexString `json:"NextHop"`
	InterfaceAlias    flexString `json:"InterfaceAlias"`
	RouteMetric       flexString `json:"RouteMetric"`
}

// ParseNetRoute parses Get-NetRoute | ConvertTo-Json output
func ParseNetRoute(out string) []domain.Route {
	var routes []domain.Route
	for _, rec := range decodeRecords[psRoute](out) {
		dest := rec.DestinationPrefix.String()
		if dest == "" {
			continue
		}
		routes = append(routes, domain.Route{
			Destination: dest,
			Gateway:     rec.NextHop.String(),
			Interface:   rec.InterfaceAlias.String(),
			Metric:      rec.RouteMetric.String(),
		})
	}
	return routes
}

// ParseRoutePrint parses the "Active Routes" table of `route print -4`:
// Network Destination  Netmask  Gateway  Interface  Metric
func ParseRoutePrint(out string) []domain.Route {
	var routes []domain.Route
	active := false
	for _, line := range lines(out) {
		switch {
		case strings.HasPrefix(line, "Active Routes"):
			active = true
			continue
		case strings.HasPrefix(line, "==="):
			if active && len(routes) > 0 {
				return routes
			}
			continue
		case !active || strings.HasPrefix(line, "Network Destination"):
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 5 || net.ParseIP(fields[0]) == nil {
			continue
		}
		routes = append(routes, domain.Route{
			Destination: withPrefix(fields[0], fields[1]),
			Gateway:     fields[2],
			Interface:   fields[3],
			Metric:      fields[4],
		})
	}
	return routes
}

// withPrefix renders dest and a dotted netmask as CIDR, or dest/mask when the
// mask is not canonical.
func withPrefix(dest, mask string) string {
	ip := net.ParseIP(mask).To4()
	if ip == nil {
		return dest + "/" + mask
	}
	ones, bits := net.IPMask(ip).Size()
	if bits == 0 {
		return dest + "/" + mask
	}
	return dest + "/" + strconv.Itoa(ones)
}
