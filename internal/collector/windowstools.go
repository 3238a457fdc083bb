package collector

import (
	"netscope/internal/domain"
	"netscope/internal/parser"
)

// psPrelude forces UTF-8 output from powershell
const psPrelude = "$OutputEncoding = [console]::InputEncoding = [console]::OutputEncoding = New-Object System.Text.UTF8Encoding; "

const (
	psNetAdapter = "Get-NetAdapter | Select-Object Name, InterfaceDescription, ifIndex, @{n='Status';e={[string]$_.Status}}, MacAddress | ConvertTo-Json -Depth 2"

	psNetIPAddress = "Get-NetIPAddress | Select-Object InterfaceAlias, IPAddress, AddressFamily | ConvertTo-Json -Depth 2"

	psNetTCPConnection = "Get-NetTCPConnection -State Listen | Select-Object LocalAddress, LocalPort, " +
		"@{Name='ProcessName';Expression={(Get-Process -Id $_.OwningProcess -ErrorAction SilentlyContinue).Name}}, " +
		"OwningProcess | ConvertTo-Json -Depth 2"

	psNetFirewallRule = "Get-NetFirewallRule | ForEach-Object { " +
		"$pf = $_ | Get-NetFirewallPortFilter; $af = $_ | Get-NetFirewallAddressFilter; " +
		"[pscustomobject]@{ DisplayName = $_.DisplayName; Enabled = [string]$_.Enabled; Direction = [string]$_.Direction; " +
		"Action = [string]$_.Action; Protocol = [string]$pf.Protocol; LocalAddress = ($af.LocalAddress -join ','); " +
		"RemoteAddress = ($af.RemoteAddress -join ',') } } | ConvertTo-Json -Depth 2"

	psNetRoute = "Get-NetRoute -AddressFamily IPv4 | Select-Object DestinationPrefix, NextHop, InterfaceAlias, RouteMetric | ConvertTo-Json -Depth 2"
)

func powershell(script string, opts Options) Call {
	return Call{
		Tool:    "powershell",
		Args:    []string{"-NoProfile", "-NonInteractive", "-Command", psPrelude + script},
		Timeout: opts.Timeouts.PowerShell,
	}
}

func windowsInterfaceSteps(opts Options) []Step[domain.NetworkInterface] {
	adapters := powershell(psNetAdapter, opts)
	adapters.Optional = true

	return []Step[domain.NetworkInterface]{
		{
			Name:  "Get-NetAdapter+Get-NetIPAddress",
			Calls: []Call{adapters, powershell(psNetIPAddress, opts)},
			Parse: func(outputs []string) []domain.NetworkInterface {
				return parser.MergeNetAdapters(parser.ParseNetAdapter(outputs[0]), parser.ParseNetIPAddress(outputs[1]))
			},
		},
	}
}

func windowsPortSteps(opts Options) []Step[domain.PortBinding] {
	return []Step[domain.PortBinding]{
		{
			Name:  "Get-NetTCPConnection",
			Calls: []Call{powershell(psNetTCPConnection, opts)},
			Parse: single(parser.ParseNetTCPConnection),
		},
		{
			Name:  "netstat -ano",
			Calls: []Call{{Tool: "netstat", Args: []string{"-ano", "-p", "TCP"}, Timeout: opts.Timeouts.Default}},
			Parse: single(parser.ParseNetstatWindows),
		},
	}
}

func windowsFirewallSteps(opts Options) []Step[domain.FirewallRule] {
	return []Step[domain.FirewallRule]{
		{
			Name:  "Get-NetFirewallRule",
			Calls: []Call{powershell(psNetFirewallRule, opts)},
			Parse: single(parser.ParseNetFirewallRule),
		},
		{
			Name:  "netsh advfirewall",
			Calls: []Call{{Tool: "netsh", Args: []string{"advfirewall", "firewall", "show", "rule", "name=all"}, Timeout: opts.Timeouts.PowerShell}},
			Parse: single(parser.ParseNetshRules),
		},
	}
}

func windowsRouteSteps(opts Options) []Step[domain.Route] {
	return []Step[domain.Route]{
		{
			Name:  "Get-NetRoute",
			Calls: []Call{powershell(psNetRoute, opts)},
			Parse: single(parser.ParseNetRoute),
		},
		{
			Name:  "route print",
			Calls: []Call{{Tool: "route", Args: []string{"print", "-4"}, Timeout: opts.Timeouts.Default}},
			Parse: single(parser.ParseRoutePrint),
		},
	}
}
