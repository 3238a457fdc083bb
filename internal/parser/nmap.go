package parser

import (
	"strconv"
	"strings"

	"github.com/Ullaakut/nmap/v3"

	"netscope/internal/domain"
)

// ParseNmapRun converts open ports from an nmap result into bindings.
// nmap sees the socket from outside, so the owning process is unknown.
func ParseNmapRun(run *nmap.Run) []domain.PortBinding {
	if run == nil {
		return nil
	}

	var ports []domain.PortBinding
	for _, host := range run.Hosts {
		if len(host.Addresses) == 0 {
			continue
		}
		addr := host.Addresses[0].Addr
		for _, port := range host.Ports {
			if port.State.State != "open" {
				continue
			}
			num := strconv.Itoa(int(port.ID))
			p, ok := domain.NewPortBinding("", "", strings.ToUpper(port.Protocol), num, "LISTEN", domain.JoinHostPort(addr, num), "")
			if ok {
				ports = append(ports, p)
			}
		}
	}
	return ports
}
