package collector

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"netscope/internal/domain"
	"netscope/internal/runner"
)

// Timeouts bounds each class of tool call
type Timeouts struct {
	Default    time.Duration
	PowerShell time.Duration
	Docker     time.Duration
	Enrich     time.Duration
}

// DefaultTimeouts returns the built-in tool budgets
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Default:    10 * time.Second,
		PowerShell: 30 * time.Second,
		Docker:     15 * time.Second,
		Enrich:     5 * time.Second,
	}
}

// Options configures how chains are built
type Options struct {
	Timeouts Timeouts
	// MaxEnrich bounds process lookups per port collection
	MaxEnrich int
	// Probe, when set, is the last step of the native port chain
	Probe *LoopbackProber
	// Docker selects the container runtime transport; Engine is required for DockerAPI
	Docker DockerTransport
	Engine EngineAPI
	// DockerEnv is where the docker CLI runs; defaults to native
	DockerEnv domain.ExecutionEnvironment
	// Disabled kinds produce empty lists without running anything
	Disabled map[domain.Kind]bool
}

// Profile binds an environment to the tool family it runs
type Profile struct {
	Env      domain.ExecutionEnvironment
	Platform domain.Platform
}

// EnvCollectors holds the chains for one environment
type EnvCollectors struct {
	Env           domain.ExecutionEnvironment
	Platform      domain.Platform
	Interfaces    *Collector[domain.NetworkInterface]
	Ports         *Collector[domain.PortBinding]
	FirewallRules *Collector[domain.FirewallRule]
	Routes        *Collector[domain.Route]
}

// Registry owns every collector, built once at startup
type Registry struct {
	runner   runner.Runner
	opts     Options
	diag     Diagnostics
	logger   zerolog.Logger
	base     zerolog.Logger
	envs     []EnvCollectors
	networks *Collector[domain.ContainerNetwork]
}

// NewRegistry builds collectors for each profile. Profiles are ordered native
// first regardless of input order; diag may be nil.
func NewRegistry(r runner.Runner, profiles []Profile, opts Options, diag Diagnostics, logger zerolog.Logger) *Registry {
	if opts.Timeouts == (Timeouts{}) {
		opts.Timeouts = DefaultTimeouts()
	}
	if opts.MaxEnrich <= 0 {
		opts.MaxEnrich = 32
	}
	if opts.Docker == DockerAPI && opts.Engine == nil {
		opts.Docker = DockerCLI
	}
	if opts.DockerEnv == "" {
		opts.DockerEnv = domain.EnvNative
	}

	reg := &Registry{
		runner: r,
		opts:   opts,
		diag:   diag,
		logger: logger.With().Str("component", "registry").Logger(),
		base:   logger,
	}

	sorted := make([]Profile, len(profiles))
	copy(sorted, profiles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Env.Rank() < sorted[j].Env.Rank()
	})

	for _, p := range sorted {
		reg.envs = append(reg.envs, reg.build(p, logger))
	}

	var netSteps []Step[domain.ContainerNetwork]
	if !opts.Disabled[domain.KindContainerNetworks] {
		netSteps = reg.networkSteps()
	}
	reg.networks = NewCollector(opts.DockerEnv, domain.KindContainerNetworks, netSteps, r, diag, logger)
	reg.logRegistered(reg.networks.Env(), reg.networks.Kind(), reg.networks.Steps())

	return reg
}

func (reg *Registry) build(p Profile, logger zerolog.Logger) EnvCollectors {
	opts := reg.opts
	native := p.Env == domain.EnvNative

	var (
		ifSteps    []Step[domain.NetworkInterface]
		portSteps  []Step[domain.PortBinding]
		fwSteps    []Step[domain.FirewallRule]
		routeSteps []Step[domain.Route]
	)
	switch p.Platform {
	case domain.PlatformWindows:
		ifSteps = windowsInterfaceSteps(opts)
		portSteps = windowsPortSteps(opts)
		fwSteps = windowsFirewallSteps(opts)
		routeSteps = windowsRouteSteps(opts)
	default:
		ifSteps = linuxInterfaceSteps(opts)
		portSteps = linuxPortSteps(opts)
		fwSteps = linuxFirewallSteps(opts)
		routeSteps = linuxRouteSteps(opts)
		if native && netlinkAvailable() {
			ifSteps = append(ifSteps, Step[domain.NetworkInterface]{Name: "netlink", Source: netlinkInterfaces})
			routeSteps = append(routeSteps, Step[domain.Route]{Name: "netlink", Source: netlinkRoutes})
		}
	}
	if native && opts.Probe != nil {
		portSteps = append(portSteps, Step[domain.PortBinding]{Name: "nmap loopback probe", Source: opts.Probe.Probe})
	}

	ec := EnvCollectors{
		Env:           p.Env,
		Platform:      p.Platform,
		Interfaces:    NewCollector(p.Env, domain.KindInterfaces, enabled(opts, domain.KindInterfaces, ifSteps), reg.runner, reg.diag, logger),
		Ports:         NewCollector(p.Env, domain.KindPorts, enabled(opts, domain.KindPorts, portSteps), reg.runner, reg.diag, logger),
		FirewallRules: NewCollector(p.Env, domain.KindFirewallRules, enabled(opts, domain.KindFirewallRules, fwSteps), reg.runner, reg.diag, logger),
		Routes:        NewCollector(p.Env, domain.KindRoutes, enabled(opts, domain.KindRoutes, routeSteps), reg.runner, reg.diag, logger),
	}

	ec.Interfaces.tag = tagInterfaces
	ec.Ports.tag = tagPorts
	ec.FirewallRules.tag = tagRules
	ec.Routes.tag = tagRoutes

	enricher := &portEnricher{
		env:      p.Env,
		platform: p.Platform,
		runner:   reg.runner,
		timeout:  opts.Timeouts.Enrich,
		limit:    opts.MaxEnrich,
		logger:   logger.With().Str("component", "enrich").Str("env", string(p.Env)).Logger(),
	}
	if native {
		enricher.local = localProcessName
	}
	ec.Ports.post = enricher.enrich

	reg.logRegistered(p.Env, domain.KindInterfaces, ec.Interfaces.Steps())
	reg.logRegistered(p.Env, domain.KindPorts, ec.Ports.Steps())
	reg.logRegistered(p.Env, domain.KindFirewallRules, ec.FirewallRules.Steps())
	reg.logRegistered(p.Env, domain.KindRoutes, ec.Routes.Steps())

	return ec
}

func (reg *Registry) networkSteps() []Step[domain.ContainerNetwork] {
	if reg.opts.Docker == DockerAPI {
		return apiNetworkSteps(reg.opts.Engine, reg.opts)
	}
	return cliNetworkSteps(reg.opts)
}

func (reg *Registry) logRegistered(env domain.ExecutionEnvironment, kind domain.Kind, steps []string) {
	reg.logger.Debug().
		Str("env", string(env)).
		Str("kind", string(kind)).
		Strs("chain", steps).
		Msg("registered collector")
}

func enabled[T any](opts Options, kind domain.Kind, steps []Step[T]) []Step[T] {
	if opts.Disabled[kind] {
		return nil
	}
	return steps
}

// Environments returns the per-environment collectors, native first
func (reg *Registry) Environments() []EnvCollectors {
	out := make([]EnvCollectors, len(reg.envs))
	copy(out, reg.envs)
	return out
}

// ContainerNetworks lists container runtime networks. A failed listing is
// an empty list; no default networks are substituted.
func (reg *Registry) ContainerNetworks(ctx context.Context) Result[domain.ContainerNetwork] {
	return reg.networks.Collect(ctx)
}

// ContainersOnNetwork lists containers attached to the named network
func (reg *Registry) ContainersOnNetwork(ctx context.Context, name string) Result[domain.ContainerInstance] {
	var steps []Step[domain.ContainerInstance]
	switch {
	case reg.opts.Disabled[domain.KindContainerNetworks] || name == "":
	case reg.opts.Docker == DockerAPI:
		steps = apiContainerSteps(reg.opts.Engine, name, reg.opts)
	default:
		steps = cliContainerSteps(name, reg.opts)
	}
	c := NewCollector(reg.opts.DockerEnv, domain.KindContainerNetworks, steps, reg.runner, reg.diag, reg.base)
	return c.Collect(ctx)
}

func tagInterfaces(items []domain.NetworkInterface, env domain.ExecutionEnvironment) {
	for i := range items {
		items[i].Environment = env
	}
}

func tagPorts(items []domain.PortBinding, env domain.ExecutionEnvironment) {
	for i := range items {
		items[i].Environment = env
	}
}

func tagRules(items []domain.FirewallRule, env domain.ExecutionEnvironment) {
	for i := range items {
		items[i].Environment = env
	}
}

func tagRoutes(items []domain.Route, env domain.ExecutionEnvironment) {
	for i := range items {
		items[i].Environment = env
	}
}
