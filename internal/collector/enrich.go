package collector

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"netscope/internal/domain"
	"netscope/internal/parser"
	"netscope/internal/runner"
)

// processLookup resolves a pid to a process name in-process; "" when unknown
type processLookup func(ctx context.Context, pid string) string

// portEnricher fills in missing process identity on port bindings.
// Lookups are cached for the duration of one call only.
type portEnricher struct {
	env      domain.ExecutionEnvironment
	platform domain.Platform
	runner   runner.Runner
	timeout  time.Duration
	limit    int
	local    processLookup
	logger   zerolog.Logger
}

func (e *portEnricher) enrich(ctx context.Context, ports []domain.PortBinding) []domain.PortBinding {
	if e.platform == domain.PlatformWindows {
		ports = e.enrichWindows(ctx, ports)
	} else {
		ports = e.enrichLinux(ctx, ports)
	}

	unresolved := 0
	for _, p := range ports {
		if !p.HasProcessName() {
			unresolved++
		}
	}
	e.logger.Debug().Int("ports", len(ports)).Int("unresolved", unresolved).Msg("process enrichment done")
	return ports
}

// enrichWindows resolves names for bindings that carry a pid: tasklist first,
// then the in-process lookup.
func (e *portEnricher) enrichWindows(ctx context.Context, ports []domain.PortBinding) []domain.PortBinding {
	names := make(map[string]string)
	lookups := 0

	for i := range ports {
		p := &ports[i]
		if p.HasProcessName() || !p.HasProcessID() {
			continue
		}
		name, seen := names[p.ProcessID]
		if !seen {
			if lookups >= e.limit {
				continue
			}
			lookups++
			name = e.tasklist(ctx, p.ProcessID)
			if name == "" && e.local != nil {
				name = e.local(ctx, p.ProcessID)
			}
			names[p.ProcessID] = name
		}
		if name != "" {
			p.ProcessName = name
		}
	}
	return ports
}

func (e *portEnricher) tasklist(ctx context.Context, pid string) string {
	out := e.runner.Run(ctx, runner.Command{
		Tool:      "tasklist",
		Args:      []string{"/FI", "PID eq " + pid, "/FO", "CSV", "/NH"},
		Namespace: e.env,
		Timeout:   e.timeout,
	})
	if !out.OK() {
		return ""
	}
	return parser.ParseTasklistCSV(out.Stdout)
}

type owner struct {
	pid  string
	name string
}

// enrichLinux resolves bindings with no process name: a per-port socket
// query, then a file-descriptor-to-process lookup by socket inode, then the
// in-process lookup. Owners are keyed by protocol and local address.
func (e *portEnricher) enrichLinux(ctx context.Context, ports []domain.PortBinding) []domain.PortBinding {
	owners := make(map[string]owner)
	sockets := make(map[string][]parser.SocketInfo)
	lookups := 0

	for i := range ports {
		p := &ports[i]
		if p.HasProcessName() {
			continue
		}
		key := p.Protocol + "/" + p.Address
		o, seen := owners[key]
		if !seen {
			if lookups >= e.limit {
				continue
			}
			lookups++
			o = e.resolveLinux(ctx, p, sockets)
			owners[key] = o
		}
		if o.pid != "" && !p.HasProcessID() {
			p.ProcessID = o.pid
		}
		if o.name != "" {
			p.ProcessName = o.name
		}
	}
	return ports
}

func (e *portEnricher) resolveLinux(ctx context.Context, p *domain.PortBinding, sockets map[string][]parser.SocketInfo) owner {
	var o owner
	if p.HasProcessID() {
		o.pid = p.ProcessID
	}

	inode := ""
	if o.pid == "" {
		rows, seen := sockets[p.Port]
		if !seen {
			rows = e.socketQuery(ctx, p.Port)
			sockets[p.Port] = rows
		}
		for _, s := range matchSockets(rows, p) {
			if s.Name != "" {
				return owner{pid: s.PID, name: s.Name}
			}
			if inode == "" {
				inode = s.Inode
			}
		}
		if inode != "" {
			o.pid = e.inodeOwner(ctx, inode)
		}
	}

	if o.pid == "" {
		return o
	}
	if name := e.comm(ctx, o.pid); name != "" {
		o.name = name
	} else if e.local != nil {
		o.name = e.local(ctx, o.pid)
	}
	return o
}

func (e *portEnricher) socketQuery(ctx context.Context, port string) []parser.SocketInfo {
	out := e.runner.Run(ctx, runner.Command{
		Tool:      "ss",
		Args:      []string{"-Htulnpe", "sport", "=", ":" + port},
		Namespace: e.env,
		Timeout:   e.timeout,
	})
	if !out.OK() {
		return nil
	}
	return parser.ParseSSExtended(out.Stdout)
}

// matchSockets keeps the sockets that serve p: same port and protocol, bound
// to p's address. Sockets on a wildcard address are used only when none is
// bound to the exact address.
func matchSockets(rows []parser.SocketInfo, p *domain.PortBinding) []parser.SocketInfo {
	want := domain.BoundAddress(p.Address)
	var exact, wildcard []parser.SocketInfo
	for _, s := range rows {
		if s.Port != p.Port || !strings.EqualFold(s.Protocol, p.Protocol) {
			continue
		}
		switch got := domain.BoundAddress(s.Address); {
		case got == want:
			exact = append(exact, s)
		case domain.IsWildcard(got):
			wildcard = append(wildcard, s)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return wildcard
}

// inodeOwner finds the pid holding socket inode. find exits non-zero on
// unreadable /proc entries, so its output is used regardless of status.
// /proc/PID/fd/N sits at depth 3 below /proc, so -maxdepth 3 reaches every fd.
func (e *portEnricher) inodeOwner(ctx context.Context, inode string) string {
	out := e.runner.Run(ctx, runner.Command{
		Tool:      "find",
		Args:      []string{"/proc", "-maxdepth", "3", "-path", "/proc/[0-9]*/fd/*", "-lname", "socket:[" + inode + "]"},
		Namespace: e.env,
		Timeout:   e.timeout,
	})
	if out.Status != runner.StatusSuccess && out.Status != runner.StatusNonZeroExit {
		return ""
	}
	return parser.ParseFDLinks(out.Stdout)
}

func (e *portEnricher) comm(ctx context.Context, pid string) string {
	out := e.runner.Run(ctx, runner.Command{
		Tool:      "cat",
		Args:      []string{"/proc/" + pid + "/comm"},
		Namespace: e.env,
		Timeout:   e.timeout,
	})
	if !out.OK() {
		return ""
	}
	return parser.ParseComm(out.Stdout)
}
