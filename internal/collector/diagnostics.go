package collector

import (
	"context"
	"time"

	"netscope/internal/domain"
)

// Failure describes one failed chain step
type Failure struct {
	CycleID     string
	Environment domain.ExecutionEnvironment
	Kind        domain.Kind
	Step        string
	Command     string
	Cause       string
	At          time.Time
}

// Diagnostics receives step failures. Implementations are best-effort and
// must not block collection.
type Diagnostics interface {
	Record(ctx context.Context, f Failure)
}

// NopDiagnostics discards failures
type NopDiagnostics struct{}

// Record does nothing
func (NopDiagnostics) Record(context.Context, Failure) {}

type cycleKey struct{}

// WithCycleID tags ctx with a refresh cycle id
func WithCycleID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, cycleKey{}, id)
}

// CycleID returns the refresh cycle id carried by ctx, or ""
func CycleID(ctx context.Context) string {
	id, _ := ctx.Value(cycleKey{}).(string)
	return id
}
