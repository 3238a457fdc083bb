package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"

	"netscope/internal/collector"
	"netscope/internal/domain"
)

// Inventory answers inventory queries over a collector registry
type Inventory struct {
	registry *collector.Registry
	eventBus *EventBus
	logger   zerolog.Logger
}

// NewInventory creates an inventory service. eventBus may be nil.
func NewInventory(registry *collector.Registry, eventBus *EventBus, logger zerolog.Logger) *Inventory {
	return &Inventory{
		registry: registry,
		eventBus: eventBus,
		logger:   logger.With().Str("component", "inventory").Logger(),
	}
}

// collectAll runs pick's collector for every environment concurrently and
// keeps each result in its environment's slot.
func collectAll[T any](ctx context.Context, envs []collector.EnvCollectors, pick func(collector.EnvCollectors) *collector.Collector[T]) []EnvResult[T] {
	results := make([]EnvResult[T], len(envs))
	p := pool.New()
	for i, env := range envs {
		c := pick(env)
		p.Go(func() {
			res := c.Collect(ctx)
			results[i] = EnvResult[T]{Env: env.Env, Items: res.Items, Cause: res.Cause}
		})
	}
	p.Wait()
	return results
}

func interfacesOf(e collector.EnvCollectors) *collector.Collector[domain.NetworkInterface] {
	return e.Interfaces
}

func portsOf(e collector.EnvCollectors) *collector.Collector[domain.PortBinding] {
	return e.Ports
}

func rulesOf(e collector.EnvCollectors) *collector.Collector[domain.FirewallRule] {
	return e.FirewallRules
}

func routesOf(e collector.EnvCollectors) *collector.Collector[domain.Route] {
	return e.Routes
}

// Interfaces lists interfaces from every environment, native first
func (s *Inventory) Interfaces(ctx context.Context) ([]domain.NetworkInterface, string) {
	results := collectAll(ctx, s.registry.Environments(), interfacesOf)
	return Merge(results), MergedCause(results)
}

// SelectableInterfaces lists interfaces that are up and not loopback
func (s *Inventory) SelectableInterfaces(ctx context.Context) ([]domain.NetworkInterface, string) {
	ifaces, cause := s.Interfaces(ctx)
	return domain.Selectable(ifaces), cause
}

// Ports lists listening port bindings from every environment, native first
func (s *Inventory) Ports(ctx context.Context) ([]domain.PortBinding, string) {
	results := collectAll(ctx, s.registry.Environments(), portsOf)
	return Merge(results), MergedCause(results)
}

// FirewallRules lists firewall rules from every environment
func (s *Inventory) FirewallRules(ctx context.Context) []domain.FirewallRule {
	return Merge(collectAll(ctx, s.registry.Environments(), rulesOf))
}

// Routes lists routing table entries from every environment
func (s *Inventory) Routes(ctx context.Context) []domain.Route {
	return Merge(collectAll(ctx, s.registry.Environments(), routesOf))
}

// ContainerNetworks lists container runtime networks; empty when the runtime
// is unavailable.
func (s *Inventory) ContainerNetworks(ctx context.Context) []domain.ContainerNetwork {
	return s.registry.ContainerNetworks(ctx).Items
}

// ContainersOnNetwork lists containers attached to the named network
func (s *Inventory) ContainersOnNetwork(ctx context.Context, name string) []domain.ContainerInstance {
	return s.registry.ContainersOnNetwork(ctx, name).Items
}

// PortsForInterface filters ports down to those reachable through iface
func (s *Inventory) PortsForInterface(iface domain.NetworkInterface, ports []domain.PortBinding) []domain.PortBinding {
	return FilterPortsForInterface(iface, ports)
}

// Refresh collects every kind in every environment concurrently under one
// cycle id. Results are merged only after all collections finish.
func (s *Inventory) Refresh(ctx context.Context) domain.Snapshot {
	cycleID := uuid.NewString()
	ctx = collector.WithCycleID(ctx, cycleID)
	logger := s.logger.With().Str("cycle", cycleID).Logger()
	start := time.Now()

	s.eventBus.Publish(Event{Type: EventRefreshStarted, CycleID: cycleID})
	logger.Debug().Msg("refresh started")

	envs := s.registry.Environments()
	var (
		ifaces   []EnvResult[domain.NetworkInterface]
		ports    []EnvResult[domain.PortBinding]
		rules    []EnvResult[domain.FirewallRule]
		routes   []EnvResult[domain.Route]
		networks collector.Result[domain.ContainerNetwork]
	)

	var wg conc.WaitGroup
	wg.Go(func() { ifaces = collectAll(ctx, envs, interfacesOf) })
	wg.Go(func() { ports = collectAll(ctx, envs, portsOf) })
	wg.Go(func() { rules = collectAll(ctx, envs, rulesOf) })
	wg.Go(func() { routes = collectAll(ctx, envs, routesOf) })
	wg.Go(func() { networks = s.registry.ContainerNetworks(ctx) })
	wg.Wait()

	snap := domain.Snapshot{
		CycleID:           cycleID,
		CollectedAt:       start.UTC(),
		Interfaces:        Merge(ifaces),
		Ports:             Merge(ports),
		ContainerNetworks: networks.Items,
		FirewallRules:     Merge(rules),
		Routes:            Merge(routes),
		Causes:            make(map[domain.Kind]string),
	}
	s.noteCause(&snap, domain.KindInterfaces, MergedCause(ifaces))
	s.noteCause(&snap, domain.KindPorts, MergedCause(ports))
	s.noteCause(&snap, domain.KindContainerNetworks, networks.Cause)
	s.noteCause(&snap, domain.KindFirewallRules, MergedCause(rules))
	s.noteCause(&snap, domain.KindRoutes, MergedCause(routes))

	summary := RefreshSummary{Counts: make(map[string]int, len(domain.Kinds)), Failed: len(snap.Causes)}
	for _, kind := range domain.Kinds {
		summary.Counts[string(kind)] = snap.Count(kind)
	}
	s.eventBus.Publish(Event{Type: EventRefreshCompleted, CycleID: cycleID, Payload: summary})

	logger.Info().
		Dur("elapsed", time.Since(start)).
		Int("interfaces", len(snap.Interfaces)).
		Int("ports", len(snap.Ports)).
		Int("networks", len(snap.ContainerNetworks)).
		Int("firewall_rules", len(snap.FirewallRules)).
		Int("routes", len(snap.Routes)).
		Int("failed_kinds", summary.Failed).
		Msg("refresh completed")

	return snap
}

func (s *Inventory) noteCause(snap *domain.Snapshot, kind domain.Kind, cause string) {
	if cause == "" {
		return
	}
	snap.Causes[kind] = cause
	s.eventBus.Publish(Event{Type: EventKindFailed, CycleID: snap.CycleID, Payload: KindFailure{Kind: string(kind), Cause: cause}})
}
