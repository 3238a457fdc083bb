package codec

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"netscope/internal/collector"
	"netscope/internal/domain"
)

// TableCodec renders records as aligned text columns
type TableCodec struct{}

// NewTableCodec creates a new table codec
func NewTableCodec() *TableCodec {
	return &TableCodec{}
}

// Format returns the codec format identifier
func (c *TableCodec) Format() string {
	return "table"
}

// Export renders v. Supported values are the record slices and *Snapshot.
func (c *TableCodec) Export(v any, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	switch data := v.(type) {
	case []domain.NetworkInterface:
		writeInterfaces(tw, data)
	case []domain.PortBinding:
		writePorts(tw, data)
	case []domain.ContainerNetwork:
		writeNetworks(tw, data)
	case []domain.ContainerInstance:
		writeContainers(tw, data)
	case []domain.FirewallRule:
		writeRules(tw, data)
	case []domain.Route:
		writeRoutes(tw, data)
	case []collector.Failure:
		writeFailures(tw, data)
	case *domain.Snapshot:
		writeSnapshot(tw, data)
	case domain.Snapshot:
		writeSnapshot(tw, &data)
	default:
		return fmt.Errorf("table output not supported for %T", v)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}

func row(w io.Writer, cols ...string) {
	fmt.Fprintln(w, strings.Join(cols, "\t"))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func writeInterfaces(w io.Writer, ifaces []domain.NetworkInterface) {
	row(w, "ENV", "NAME", "UP", "LOOPBACK", "MAC", "IPV4", "IPV6")
	for _, i := range ifaces {
		row(w, string(i.Environment), i.Name, yesNo(i.IsUp), yesNo(i.IsLoopback), dash(i.MAC),
			dash(strings.Join(i.IPv4, ",")), dash(strings.Join(i.IPv6, ",")))
	}
}

func writePorts(w io.Writer, ports []domain.PortBinding) {
	row(w, "ENV", "PROTO", "PORT", "ADDRESS", "STATE", "PID", "PROCESS")
	for _, p := range ports {
		row(w, string(p.Environment), p.Protocol, p.Port, p.Address, dash(p.State), p.ProcessID, p.ProcessName)
	}
}

func writeNetworks(w io.Writer, nets []domain.ContainerNetwork) {
	row(w, "NAME", "DRIVER", "SCOPE", "SUBNET")
	for _, n := range nets {
		row(w, n.Name, n.Driver, n.Scope, dash(n.Subnet))
	}
}

func writeContainers(w io.Writer, containers []domain.ContainerInstance) {
	row(w, "ID", "NAME", "IMAGE", "STATUS", "PORTS")
	for _, c := range containers {
		row(w, c.ID, c.Name, c.Image, c.Status, dash(c.Ports))
	}
}

func writeRules(w io.Writer, rules []domain.FirewallRule) {
	row(w, "ENV", "NAME", "ENABLED", "DIRECTION", "ACTION", "PROTO", "LOCAL", "REMOTE")
	for _, r := range rules {
		row(w, string(r.Environment), r.Name, r.Enabled, r.Direction, r.Action, dash(r.Protocol),
			dash(r.LocalAddress), dash(r.RemoteAddress))
	}
}

func writeRoutes(w io.Writer, routes []domain.Route) {
	row(w, "ENV", "DESTINATION", "GATEWAY", "INTERFACE", "METRIC")
	for _, r := range routes {
		row(w, string(r.Environment), r.Destination, r.Gateway, dash(r.Interface), dash(r.Metric))
	}
}

func writeFailures(w io.Writer, failures []collector.Failure) {
	row(w, "TIME", "CYCLE", "ENV", "KIND", "STEP", "CAUSE")
	for _, f := range failures {
		row(w, f.At.Local().Format(time.DateTime), dash(f.CycleID), string(f.Environment), string(f.Kind), f.Step, f.Cause)
	}
}

func writeSnapshot(w io.Writer, s *domain.Snapshot) {
	fmt.Fprintf(w, "cycle %s at %s\n", s.CycleID, s.CollectedAt.Format("2006-01-02 15:04:05 MST"))
	for _, kind := range domain.Kinds {
		fmt.Fprintf(w, "%s:\t%d\n", kind, s.Count(kind))
	}

	if len(s.Causes) == 0 {
		return
	}
	kinds := make([]string, 0, len(s.Causes))
	for k := range s.Causes {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	fmt.Fprintln(w, "failed:")
	for _, k := range kinds {
		fmt.Fprintf(w, "  %s:\t%s\n", k, s.Causes[domain.Kind(k)])
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
