//go:build linux

package collector

import (
	"context"
	"fmt"
	"strconv"

	"github.com/vishvananda/netlink"

	"netscope/internal/domain"
)

// netlinkInterfaces reads interfaces straight from the kernel.
// Up means operational state UP, matching `ip -br`.
func netlinkInterfaces(_ context.Context) ([]domain.NetworkInterface, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}

	ifaces := make([]domain.NetworkInterface, 0, len(links))
	for _, link := range links {
		attrs := link.Attrs()
		iface := domain.NewNetworkInterface(attrs.Name, "")
		iface.MAC = domain.NormalizeMAC(attrs.HardwareAddr.String())
		iface.IsUp = attrs.OperState == netlink.OperUp
		iface.IsLoopback = domain.IsLoopbackName(attrs.Name)

		addrs, err := netlink.AddrList(link, netlink.FAMILY_ALL)
		if err != nil {
			return nil, fmt.Errorf("list addresses of %s: %w", attrs.Name, err)
		}
		for _, addr := range addrs {
			if addr.IPNet != nil {
				iface.AddAddress(addr.IPNet.IP.String())
			}
		}
		ifaces = append(ifaces, iface)
	}
	return ifaces, nil
}

// netlinkRoutes reads the IPv4 main routing table from the kernel
func netlinkRoutes(_ context.Context) ([]domain.Route, error) {
	routes, err := netlink.RouteList(nil, netlink.FAMILY_V4)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}

	names := make(map[int]string)
	linkName := func(index int) string {
		if name, ok := names[index]; ok {
			return name
		}
		name := ""
		if link, err := netlink.LinkByIndex(index); err == nil {
			name = link.Attrs().Name
		}
		names[index] = name
		return name
	}

	out := make([]domain.Route, 0, len(routes))
	for _, r := range routes {
		route := domain.Route{
			Destination: "default",
			Gateway:     "On-link",
			Interface:   linkName(r.LinkIndex),
		}
		if r.Dst != nil {
			route.Destination = r.Dst.String()
		}
		if r.Gw != nil {
			route.Gateway = r.Gw.String()
		}
		if r.Priority != 0 {
			route.Metric = strconv.Itoa(r.Priority)
		}
		out = append(out, route)
	}
	return out, nil
}

func netlinkAvailable() bool {
	return true
}
