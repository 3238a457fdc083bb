// Package repository defines the persistence interfaces for netscope.
//
// The only persisted data is the diagnostic log: an append-only, timestamped
// record of collection failures. Collection never reads it back; it exists
// for operators investigating why a source keeps falling through its chain.
// The implementation lives in the sqlite subpackage.
package repository
