// Package domain defines the inventory records produced by netscope.
//
// Every record is created fresh on each collection cycle. Nothing here has a
// persistent identity; consumers must not hold on to records as handles.
//
// # Records
//
// NetworkInterface, PortBinding, FirewallRule and Route carry the
// ExecutionEnvironment that produced them, so host data and data from the
// bridged namespace are never conflated. ContainerNetwork and
// ContainerInstance come from the container runtime only and carry no tag.
//
// # Normalization
//
// NormalizeMAC, ClassifyAddress and BoundAddress are the shared helpers the
// parsers use to turn tool output into canonical values:
//
//   - MAC addresses are lowercase and colon separated
//   - an address token is IPv6 iff a colon remains after stripping /prefix
//   - a port binding's bound address is its address minus the trailing :port
//
// The package has no external dependencies and performs no I/O.
package domain
