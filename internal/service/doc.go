// Package service exposes the collected inventory to callers.
//
// Inventory runs the per-environment collectors from a collector.Registry,
// merges their records (native before bridged, no de-duplication) and
// correlates port bindings with interfaces. A query never fails: when every
// source of every environment failed, it returns an empty list and a cause
// string for diagnostics.
//
// # Event System
//
// Refresh publishes events via EventBus so a caller can follow a cycle's
// progress and per-kind failures.
package service
