package parser

import (
	"regexp"
	"strings"

	"netscope/internal/domain"
)

// ParseInterfaceLine parses one `ip -br addr show` line:
// name state addr/prefix ...
// The interface is up iff state is exactly UP.
func ParseInterfaceLine(line string) (domain.NetworkInterface, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return domain.NetworkInterface{}, false
	}

	iface := domain.NewNetworkInterface(fields[0], "")
	iface.IsUp = fields[1] == "UP"
	iface.IsLoopback = domain.IsLoopbackName(fields[0])
	for _, token := range fields[2:] {
		iface.AddAddress(token)
	}
	return iface, true
}

// ParseBriefAddr parses `ip -br addr show`
func ParseBriefAddr(out string) []domain.NetworkInterface {
	var ifaces []domain.NetworkInterface
	for _, line := range lines(out) {
		if iface, ok := ParseInterfaceLine(line); ok {
			ifaces = append(ifaces, iface)
		}
	}
	return ifaces
}

// LinkInfo is one `ip -br link show` record
type LinkInfo struct {
	Name  string
	State string
	MAC   string
}

// ParseBriefLink parses `ip -br link show`: name state mac <flags>.
// The MAC column is kept only when it looks like xx:xx:xx:xx:xx:xx.
func ParseBriefLink(out string) []LinkInfo {
	var links []LinkInfo
	for _, line := range lines(out) {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		link := LinkInfo{Name: fields[0], State: fields[1]}
		if domain.IsMAC(fields[2]) {
			link.MAC = domain.NormalizeMAC(fields[2])
		}
		links = append(links, link)
	}
	return links
}

// MergeBriefLinks fills MAC addresses into ifaces by interface name
func MergeBriefLinks(ifaces []domain.NetworkInterface, links []LinkInfo) []domain.NetworkInterface {
	macs := make(map[string]string, len(links))
	for _, l := range links {
		if l.MAC != "" {
			macs[l.Name] = l.MAC
		}
	}

	out := make([]domain.NetworkInterface, len(ifaces))
	for i, iface := range ifaces {
		if mac, ok := macs[iface.Name]; ok {
			iface.MAC = mac
		}
		out[i] = iface
	}
	return out
}

var (
	ssUsersRe = regexp.MustCompile(`users:\(\("([^"]*)",pid=(\d+)`)
	ssInodeRe = regexp.MustCompile(`\bino:(\d+)`)
)

// extractSSProcess pulls the first process name and pid out of
// users:(("name",pid=N,fd=M),...)
func extractSSProcess(s string) (name, pid string) {
	m := ssUsersRe.FindStringSubmatch(s)
	if m == nil {
		return "", ""
	}
	return m[1], m[2]
}

// ParseSSListening parses `ss -tulnp`:
// proto state recvq sendq local peer [users:((...))]
func ParseSSListening(out string) []domain.PortBinding {
	var ports []domain.PortBinding
	for _, line := range lines(out) {
		fields := strings.Fields(line)
		if len(fields) < 5 || (fields[0] != "tcp" && fields[0] != "udp") {
			continue
		}

		local := fields[4]
		_, port, ok := domain.SplitHostPort(local)
		if !ok {
			continue
		}

		var name, pid string
		if len(fields) >= 7 {
			name, pid = extractSSProcess(strings.Join(fields[6:], " "))
		}

		p, ok := domain.NewPortBinding(pid, name, strings.ToUpper(fields[0]), port, fields[1], local, "")
		if ok {
			ports = append(ports, p)
		}
	}
	return ports
}

// ParseNetstatLinux parses `netstat -tulnp`:
// proto recvq sendq local foreign [state] pid/program
func ParseNetstatLinux(out string) []domain.PortBinding {
	var ports []domain.PortBinding
	for _, line := range lines(out) {
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}
		proto := strings.TrimSuffix(fields[0], "6")
		if proto != "tcp" && proto != "udp" {
			continue
		}

		local := fields[3]
		_, port, ok := domain.SplitHostPort(local)
		if !ok {
			continue
		}

		rest := fields[5:]
		state := ""
		if len(rest) > 0 && !strings.Contains(rest[0], "/") && rest[0] != "-" {
			state = rest[0]
			rest = rest[1:]
		}

		var pid, name string
		if info := strings.Join(rest, " "); strings.Contains(info, "/") {
			pid, name, _ = strings.Cut(info, "/")
		}

		p, ok := domain.NewPortBinding(pid, name, strings.ToUpper(proto), port, state, local, "")
		if ok {
			ports = append(ports, p)
		}
	}
	return ports
}

// SocketInfo is one socket from an extended `ss -e` listing
type SocketInfo struct {
	Protocol string
	Address  string
	Port     string
	PID      string
	Name     string
	Inode    string
}

// ParseSSExtended parses `ss -Htulnpe ...` output. Process fields are empty
// when the caller lacks privilege; the inode is still reported.
func ParseSSExtended(out string) []SocketInfo {
	var sockets []SocketInfo
	for _, line := range lines(out) {
		fields := strings.Fields(line)
		if len(fields) < 5 || (fields[0] != "tcp" && fields[0] != "udp") {
			continue
		}
		_, port, ok := domain.SplitHostPort(fields[4])
		if !ok || !domain.ValidPort(port) {
			continue
		}

		info := SocketInfo{Protocol: strings.ToUpper(fields[0]), Address: fields[4], Port: port}
		info.Name, info.PID = extractSSProcess(line)
		if m := ssInodeRe.FindStringSubmatch(line); m != nil && m[1] != "0" {
			info.Inode = m[1]
		}
		sockets = append(sockets, info)
	}
	return sockets
}

// ParseFDLinks returns the pid owning the first /proc/<pid>/fd/<n> path
// printed by find, or "" when none matched.
func ParseFDLinks(out string) string {
	for _, line := range lines(out) {
		rest, ok := strings.CutPrefix(line, "/proc/")
		if !ok {
			continue
		}
		pid, _, _ := strings.Cut(rest, "/")
		if isDigits(pid) {
			return pid
		}
	}
	return ""
}

// ParseComm returns the process name from /proc/<pid>/comm
func ParseComm(out string) string {
	return strings.TrimSpace(out)
}

// ParseIPRoute parses `ip route show`:
// dest [via gw] dev iface [... metric N]
// Directly connected routes have no via and get the gateway "On-link".
func ParseIPRoute(out string) []domain.Route {
	var routes []domain.Route
	for _, line := range lines(out) {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}

		route := domain.Route{Destination: fields[0], Gateway: "On-link"}
		// route type prefixes such as "unreachable 10.0.0.0/8"
		start := 1
		if isRouteType(fields[0]) && len(fields) > 1 {
			route.Destination = fields[1]
			start = 2
		}
		for i := start; i+1 < len(fields); i++ {
			switch fields[i] {
			case "via":
				route.Gateway = fields[i+1]
			case "dev":
				route.Interface = fields[i+1]
			case "metric":
				route.Metric = fields[i+1]
			}
		}
		routes = append(routes, route)
	}
	return routes
}

func isRouteType(s string) bool {
	switch s {
	case "unicast", "local", "broadcast", "multicast", "unreachable", "prohibit", "blackhole", "throw":
		return true
	}
	return false
}

// ParseRouteTable parses `route -n`:
// dest gateway genmask flags metric ref use iface
func ParseRouteTable(out string) []domain.Route {
	var routes []domain.Route
	for _, line := range lines(out) {
		fields := strings.Fields(line)
		if len(fields) < 8 || !looksIPv4(fields[0]) {
			continue
		}
		routes = append(routes, domain.Route{
			Destination: withPrefix(fields[0], fields[2]),
			Gateway:     fields[1],
			Interface:   fields[7],
			Metric:      fields[4],
		})
	}
	return routes
}

func looksIPv4(s string) bool {
	return strings.Count(s, ".") == 3 && !strings.Contains(s, ":")
}

// ParseIptables parses `iptables -L -n -v --line-numbers`. Each chain
// starts with "Chain NAME (...)" followed by a header; rule lines begin
// with the rule number. Rules without a jump leave the target column blank
// and get an empty Action.
func ParseIptables(out string) []domain.FirewallRule {
	var rules []domain.FirewallRule
	chain := ""
	hasOpt := true
	protCol := -1

	for _, line := range lines(out) {
		fields := strings.Fields(line)
		switch {
		case fields[0] == "Chain" && len(fields) >= 2:
			chain = fields[1]
			continue
		case fields[0] == "num":
			hasOpt = strings.Contains(line, " opt ")
			protCol = strings.Index(line, " prot ")
			if protCol >= 0 {
				protCol++
			}
			continue
		case chain == "" || !isDigits(fields[0]) || len(fields) < 5:
			continue
		}

		// num pkts bytes [target] prot [opt] in out source destination [match...]
		target, rest := fields[3], fields[4:]
		if iptablesNoTarget(line, fields, hasOpt, protCol) {
			target, rest = "", fields[3:]
		}
		cols := 6
		if !hasOpt {
			cols = 5
		}
		if len(rest) < cols {
			continue
		}
		src, dst := rest[cols-2], rest[cols-1]
		extra := strings.Join(rest[cols:], " ")

		name := chain + " #" + fields[0]
		if extra != "" {
			name += " " + extra
		}
		rule := domain.FirewallRule{
			Name:      name,
			Enabled:   "Yes",
			Direction: chainDirection(chain),
			Action:    target,
			Protocol:  rest[0],
		}
		if chain == "INPUT" {
			rule.LocalAddress, rule.RemoteAddress = dst, src
		} else {
			rule.LocalAddress, rule.RemoteAddress = src, dst
		}
		rules = append(rules, rule)
	}
	return rules
}

// iptablesNoTarget reports whether a rule line has a blank target column.
// With an opt column the token after a blank target is the opt flag ("--",
// "-f", "!f"). Without one the fourth token is compared against the header's
// prot position.
func iptablesNoTarget(line string, fields []string, hasOpt bool, protCol int) bool {
	if hasOpt {
		opt := fields[4]
		return strings.HasPrefix(opt, "-") || opt == "!f"
	}
	return protCol >= 0 && fieldOffset(line, 3) >= protCol
}

// fieldOffset returns the byte offset of the n-th whitespace separated field
func fieldOffset(line string, n int) int {
	count := -1
	inField := false
	for i, r := range line {
		if r == ' ' || r == '\t' {
			inField = false
			continue
		}
		if !inField {
			inField = true
			count++
			if count == n {
				return i
			}
		}
	}
	return -1
}

func chainDirection(chain string) string {
	switch chain {
	case "INPUT":
		return "In"
	case "OUTPUT":
		return "Out"
	case "FORWARD":
		return "Forward"
	default:
		return chain
	}
}
