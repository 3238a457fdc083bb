// Package runner executes diagnostic tools in an execution namespace.
//
// A Runner never returns a Go error. Every call produces exactly one Outcome:
// Success, NonZeroExit, LaunchFailed or TimedOut. Each call spawns at most one
// external process (or one remote session); retries are a collector concern.
package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"netscope/internal/domain"
)

// DefaultTimeout bounds a command whose Timeout is zero
const DefaultTimeout = 10 * time.Second

// Status is the outcome kind of a command
type Status int

const (
	StatusSuccess Status = iota
	StatusNonZeroExit
	StatusLaunchFailed
	StatusTimedOut
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusNonZeroExit:
		return "non_zero_exit"
	case StatusLaunchFailed:
		return "launch_failed"
	case StatusTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Command describes one tool invocation
type Command struct {
	Tool      string
	Args      []string
	Namespace domain.ExecutionEnvironment
	Timeout   time.Duration
}

// String renders the command line for logs and diagnostics
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Tool
	}
	return c.Tool + " " + strings.Join(c.Args, " ")
}

func (c Command) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// Outcome is the result of running a Command.
// Code is set for NonZeroExit, Reason for LaunchFailed.
type Outcome struct {
	Status Status
	Code   int
	Stdout string
	Stderr string
	Reason string
}

// Success builds a successful outcome
func Success(stdout, stderr string) Outcome {
	return Outcome{Status: StatusSuccess, Stdout: stdout, Stderr: stderr}
}

// NonZeroExit builds an outcome for a tool that ran and reported failure
func NonZeroExit(code int, stdout, stderr string) Outcome {
	return Outcome{Status: StatusNonZeroExit, Code: code, Stdout: stdout, Stderr: stderr}
}

// LaunchFailed builds an outcome for a tool that could not be started
func LaunchFailed(reason string) Outcome {
	return Outcome{Status: StatusLaunchFailed, Reason: reason}
}

// TimedOut builds an outcome for a tool that exceeded its budget
func TimedOut() Outcome {
	return Outcome{Status: StatusTimedOut}
}

// OK reports whether the command succeeded
func (o Outcome) OK() bool {
	return o.Status == StatusSuccess
}

// Cause describes a failed outcome for diagnostics
func (o Outcome) Cause() string {
	switch o.Status {
	case StatusSuccess:
		return ""
	case StatusNonZeroExit:
		msg := fmt.Sprintf("exit status %d", o.Code)
		if stderr := strings.TrimSpace(o.Stderr); stderr != "" {
			msg += ": " + firstLine(stderr)
		}
		return msg
	case StatusLaunchFailed:
		return "launch failed: " + o.Reason
	case StatusTimedOut:
		return "timed out"
	default:
		return o.Status.String()
	}
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

// Runner runs a command and reports its outcome
type Runner interface {
	Run(ctx context.Context, cmd Command) Outcome
}

// RunnerFunc adapts a function to Runner
type RunnerFunc func(ctx context.Context, cmd Command) Outcome

// Run calls f
func (f RunnerFunc) Run(ctx context.Context, cmd Command) Outcome {
	return f(ctx, cmd)
}
