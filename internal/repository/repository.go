package repository

import (
	"context"

	"netscope/internal/collector"
)

// DiagnosticLog stores collection failures
type DiagnosticLog interface {
	collector.Diagnostics

	// Append writes one failure
	Append(ctx context.Context, f collector.Failure) error
	// Recent returns up to limit failures, newest first
	Recent(ctx context.Context, limit int) ([]collector.Failure, error)
	// ByCycle returns the failures of one refresh cycle in insertion order
	ByCycle(ctx context.Context, cycleID string) ([]collector.Failure, error)

	Close() error
}
