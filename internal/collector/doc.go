// Package collector gathers inventory records from one execution environment.
//
// A Collector owns an ordered fallback chain of steps for one
// (environment, resource kind) pair. Steps are either tool invocations
// parsed by the parser package or in-process sources (netlink, the Docker
// Engine API, an nmap probe).
//
// # Fallback Chains
//
// Steps are tried in order. A step fails when any required call does not
// exit successfully, when an in-process source returns an error, or when it
// parses zero records. The first step producing records wins. When every step
// fails the collector returns an empty list and a diagnostic cause; errors
// never cross the collector boundary.
//
// # Registry
//
// Registry builds the chains once at startup from each environment's
// platform (linux or windows tools) and exposes the collectors in
// aggregation order, native first.
//
// # Enrichment
//
// Port listings that miss the owning process are enriched after the chain
// succeeds: per-port socket queries and file-descriptor lookups on linux,
// tasklist on windows, and an in-process lookup for the native namespace.
package collector
