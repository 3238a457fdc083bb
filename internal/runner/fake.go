package runner

import (
	"context"
	"sync"
)

// Fake is a scripted Runner keyed by namespace and command line.
// Unscripted commands return LaunchFailed, as if the tool were missing.
type Fake struct {
	mu        sync.Mutex
	responses map[string]Outcome
	calls     []Command
}

// NewFake creates an empty scripted runner
func NewFake() *Fake {
	return &Fake{responses: make(map[string]Outcome)}
}

func fakeKey(cmd Command) string {
	return string(cmd.Namespace) + "|" + cmd.String()
}

// On scripts the outcome for cmd
func (f *Fake) On(cmd Command, outcome Outcome) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[fakeKey(Command{Tool: cmd.Tool, Args: cmd.Args, Namespace: cmd.Namespace})] = outcome
	return f
}

// Run returns the scripted outcome and records the call
func (f *Fake) Run(_ context.Context, cmd Command) Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cmd)
	if out, ok := f.responses[fakeKey(cmd)]; ok {
		return out
	}
	return LaunchFailed("executable file not found: " + cmd.Tool)
}

// Calls returns the commands run so far, in order
func (f *Fake) Calls() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Command, len(f.calls))
	copy(out, f.calls)
	return out
}
