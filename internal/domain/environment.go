package domain

// ExecutionEnvironment identifies the namespace a record was collected from.
type ExecutionEnvironment string

const (
	// EnvNative is the host the collector runs on
	EnvNative ExecutionEnvironment = "native"
	// EnvBridged is the secondary namespace reached through an interop bridge
	EnvBridged ExecutionEnvironment = "bridged"
)

// Environments lists environments in aggregation order.
var Environments = []ExecutionEnvironment{EnvNative, EnvBridged}

// String returns the environment tag
func (e ExecutionEnvironment) String() string {
	return string(e)
}

// Rank orders environments for merging (native first)
func (e ExecutionEnvironment) Rank() int {
	switch e {
	case EnvNative:
		return 0
	case EnvBridged:
		return 1
	default:
		return 2
	}
}

// Kind identifies a collectable resource kind
type Kind string

const (
	KindInterfaces        Kind = "interfaces"
	KindPorts             Kind = "ports"
	KindContainerNetworks Kind = "container_networks"
	KindFirewallRules     Kind = "firewall_rules"
	KindRoutes            Kind = "routes"
)

// Kinds lists every resource kind collected during a refresh
var Kinds = []Kind{
	KindInterfaces,
	KindPorts,
	KindContainerNetworks,
	KindFirewallRules,
	KindRoutes,
}
