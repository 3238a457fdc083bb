package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"netscope/internal/codec"
	"netscope/internal/collector"
	"netscope/internal/domain"
	"netscope/internal/service"
)

func (a *app) query(ctx context.Context, opt *Option, exporter codec.Exporter) error {
	inv := a.inventory

	switch opt.query {
	case "interfaces":
		var (
			ifaces []domain.NetworkInterface
			cause  string
		)
		if opt.Up {
			ifaces, cause = inv.SelectableInterfaces(ctx)
		} else {
			ifaces, cause = inv.Interfaces(ctx)
		}
		a.warnCause(domain.KindInterfaces, cause)
		return exporter.Export(ifaces, os.Stdout)

	case "ports":
		ports, cause := inv.Ports(ctx)
		a.warnCause(domain.KindPorts, cause)
		return exporter.Export(ports, os.Stdout)

	case "networks":
		return exporter.Export(inv.ContainerNetworks(ctx), os.Stdout)

	case "containers":
		return exporter.Export(inv.ContainersOnNetwork(ctx, opt.queryArg), os.Stdout)

	case "firewall":
		return exporter.Export(inv.FirewallRules(ctx), os.Stdout)

	case "routes":
		return exporter.Export(inv.Routes(ctx), os.Stdout)

	case "ports-for":
		ifaces, cause := inv.Interfaces(ctx)
		a.warnCause(domain.KindInterfaces, cause)
		iface, ok := findInterface(ifaces, opt.queryArg)
		if !ok {
			return fmt.Errorf("interface %q not found", opt.queryArg)
		}
		ports, cause := inv.Ports(ctx)
		a.warnCause(domain.KindPorts, cause)
		return exporter.Export(inv.PortsForInterface(iface, ports), os.Stdout)

	case "failures":
		if a.diag == nil {
			return fmt.Errorf("diagnostic log is disabled; set diagnostics.enabled in the config")
		}
		var failures []collector.Failure
		var err error
		if opt.Cycle != "" {
			failures, err = a.diag.ByCycle(ctx, opt.Cycle)
		} else {
			failures, err = a.diag.Recent(ctx, opt.Limit)
		}
		if err != nil {
			return err
		}
		return exporter.Export(failures, os.Stdout)

	default:
		return a.refreshLoop(ctx, opt, exporter)
	}
}

func (a *app) refreshLoop(ctx context.Context, opt *Option, exporter codec.Exporter) error {
	for {
		snap := a.inventory.Refresh(ctx)
		if err := exportSnapshot(&snap, opt, exporter); err != nil {
			return err
		}
		if opt.Interval <= 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(opt.Interval):
		}
	}
}

// exportSnapshot writes the whole snapshot, or only the kind selected by the
// query when rendering a saved file.
func exportSnapshot(snap *domain.Snapshot, opt *Option, exporter codec.Exporter) error {
	switch opt.query {
	case "interfaces":
		if opt.Up {
			return exporter.Export(domain.Selectable(snap.Interfaces), os.Stdout)
		}
		return exporter.Export(snap.Interfaces, os.Stdout)
	case "ports":
		return exporter.Export(snap.Ports, os.Stdout)
	case "networks":
		return exporter.Export(snap.ContainerNetworks, os.Stdout)
	case "firewall":
		return exporter.Export(snap.FirewallRules, os.Stdout)
	case "routes":
		return exporter.Export(snap.Routes, os.Stdout)
	case "ports-for":
		iface, ok := findInterface(snap.Interfaces, opt.queryArg)
		if !ok {
			return fmt.Errorf("interface %q not found", opt.queryArg)
		}
		return exporter.Export(service.FilterPortsForInterface(iface, snap.Ports), os.Stdout)
	}

	if exporter.Format() == "table" {
		if err := exporter.Export(snap, os.Stdout); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout)
		return exporter.Export(snap.Ports, os.Stdout)
	}
	return exporter.Export(snap, os.Stdout)
}

func findInterface(ifaces []domain.NetworkInterface, name string) (domain.NetworkInterface, bool) {
	for _, iface := range ifaces {
		if iface.Name == name {
			return iface, true
		}
	}
	return domain.NetworkInterface{}, false
}

func (a *app) warnCause(kind domain.Kind, cause string) {
	if cause != "" {
		a.logger.Warn().Str("kind", string(kind)).Str("cause", cause).Msg("every source failed")
	}
}
