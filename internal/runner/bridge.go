package runner

import (
	"context"
	"path/filepath"

	"netscope/internal/domain"
)

// BridgeKind selects how the bridged namespace is reached
type BridgeKind string

const (
	BridgeNone    BridgeKind = "none"
	BridgeWSL     BridgeKind = "wsl"
	BridgeInterop BridgeKind = "interop"
	BridgeSSH     BridgeKind = "ssh"
)

// ParseBridgeKind parses a bridge kind, defaulting to none
func ParseBridgeKind(s string) BridgeKind {
	switch BridgeKind(s) {
	case BridgeWSL, BridgeInterop, BridgeSSH:
		return BridgeKind(s)
	default:
		return BridgeNone
	}
}

// WSLBridge runs commands inside a WSL distribution from the Windows host
// by prefixing them with wsl.exe.
type WSLBridge struct {
	base   Runner
	distro string
}

// NewWSLBridge wraps base; an empty distro targets the default distribution
func NewWSLBridge(base Runner, distro string) *WSLBridge {
	return &WSLBridge{base: base, distro: distro}
}

// Run rewrites cmd as wsl.exe [-d distro] -e tool args...
func (b *WSLBridge) Run(ctx context.Context, cmd Command) Outcome {
	return b.base.Run(ctx, b.wrap(cmd))
}

func (b *WSLBridge) wrap(cmd Command) Command {
	args := make([]string, 0, len(cmd.Args)+4)
	if b.distro != "" {
		args = append(args, "-d", b.distro)
	}
	args = append(args, "-e", cmd.Tool)
	args = append(args, cmd.Args...)
	return Command{
		Tool:      "wsl.exe",
		Args:      args,
		Namespace: cmd.Namespace,
		Timeout:   cmd.Timeout,
	}
}

// InteropBridge runs Windows binaries from inside WSL.
// Tools without an extension are resolved to their .exe name.
type InteropBridge struct {
	base Runner
}

// NewInteropBridge wraps base
func NewInteropBridge(base Runner) *InteropBridge {
	return &InteropBridge{base: base}
}

// Run launches the .exe form of cmd.Tool
func (b *InteropBridge) Run(ctx context.Context, cmd Command) Outcome {
	if filepath.Ext(cmd.Tool) == "" {
		cmd.Tool += ".exe"
	}
	return b.base.Run(ctx, cmd)
}

// Router dispatches a command to the runner for its namespace
type Router struct {
	native  Runner
	bridged Runner
}

// NewRouter creates a router; bridged may be nil when no bridge is configured
func NewRouter(native, bridged Runner) *Router {
	return &Router{native: native, bridged: bridged}
}

// Run dispatches on cmd.Namespace
func (r *Router) Run(ctx context.Context, cmd Command) Outcome {
	switch cmd.Namespace {
	case domain.EnvBridged:
		if r.bridged == nil {
			return LaunchFailed("no bridge configured")
		}
		return r.bridged.Run(ctx, cmd)
	default:
		return r.native.Run(ctx, cmd)
	}
}

// HasBridge reports whether a bridged namespace is reachable
func (r *Router) HasBridge() bool {
	return r.bridged != nil
}
