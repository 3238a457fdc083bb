package collector

import (
	"netscope/internal/domain"
	"netscope/internal/parser"
)

func linuxInterfaceSteps(opts Options) []Step[domain.NetworkInterface] {
	return []Step[domain.NetworkInterface]{
		{
			Name: "ip -br",
			Calls: []Call{
				{Tool: "ip", Args: []string{"-br", "addr", "show"}, Timeout: opts.Timeouts.Default},
				{Tool: "ip", Args: []string{"-br", "link", "show"}, Timeout: opts.Timeouts.Default, Optional: true},
			},
			Parse: func(outputs []string) []domain.NetworkInterface {
				return parser.MergeBriefLinks(parser.ParseBriefAddr(outputs[0]), parser.ParseBriefLink(outputs[1]))
			},
		},
	}
}

func linuxPortSteps(opts Options) []Step[domain.PortBinding] {
	return []Step[domain.PortBinding]{
		{
			Name:  "ss -tulnp",
			Calls: []Call{{Tool: "ss", Args: []string{"-tulnp"}, Timeout: opts.Timeouts.Default}},
			Parse: single(parser.ParseSSListening),
		},
		{
			Name:  "netstat -tulnp",
			Calls: []Call{{Tool: "netstat", Args: []string{"-tulnp"}, Timeout: opts.Timeouts.Default}},
			Parse: single(parser.ParseNetstatLinux),
		},
	}
}

func linuxFirewallSteps(opts Options) []Step[domain.FirewallRule] {
	args := []string{"-L", "-n", "-v", "--line-numbers"}
	return []Step[domain.FirewallRule]{
		{
			Name:  "iptables",
			Calls: []Call{{Tool: "iptables", Args: args, Timeout: opts.Timeouts.Default}},
			Parse: single(parser.ParseIptables),
		},
		{
			Name:  "iptables-legacy",
			Calls: []Call{{Tool: "iptables-legacy", Args: args, Timeout: opts.Timeouts.Default}},
			Parse: single(parser.ParseIptables),
		},
	}
}

func linuxRouteSteps(opts Options) []Step[domain.Route] {
	return []Step[domain.Route]{
		{
			Name:  "ip route",
			Calls: []Call{{Tool: "ip", Args: []string{"route", "show"}, Timeout: opts.Timeouts.Default}},
			Parse: single(parser.ParseIPRoute),
		},
		{
			Name:  "route -n",
			Calls: []Call{{Tool: "route", Args: []string{"-n"}, Timeout: opts.Timeouts.Default}},
			Parse: single(parser.ParseRouteTable),
		},
	}
}
