package collector

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"netscope/internal/domain"
	"netscope/internal/runner"
)

// Call is one tool invocation within a step
type Call struct {
	Tool    string
	Args    []string
	Timeout time.Duration
	// Optional calls may fail; their output is passed to Parse as ""
	Optional bool
}

// Step is one entry of a fallback chain: either tool calls with a parser,
// or an in-process source.
type Step[T any] struct {
	Name   string
	Calls  []Call
	Parse  func(outputs []string) []T
	Source func(ctx context.Context) ([]T, error)
}

// Result is the outcome of a collection. Cause is set only when every step failed.
type Result[T any] struct {
	Items []T
	Step  string
	Cause string
}

// Collector runs a fallback chain for one environment and resource kind
type Collector[T any] struct {
	env    domain.ExecutionEnvironment
	kind   domain.Kind
	steps  []Step[T]
	runner runner.Runner
	diag   Diagnostics
	logger zerolog.Logger

	// post runs on the winning step's records before tagging
	post func(ctx context.Context, items []T) []T
	tag  func(items []T, env domain.ExecutionEnvironment)
}

// NewCollector creates a collector over steps. diag may be nil.
func NewCollector[T any](env domain.ExecutionEnvironment, kind domain.Kind, steps []Step[T], r runner.Runner, diag Diagnostics, logger zerolog.Logger) *Collector[T] {
	if diag == nil {
		diag = NopDiagnostics{}
	}
	return &Collector[T]{
		env:    env,
		kind:   kind,
		steps:  steps,
		runner: r,
		diag:   diag,
		logger: logger.With().Str("component", "collector").Str("env", string(env)).Str("kind", string(kind)).Logger(),
	}
}

// Env returns the environment this collector reads from
func (c *Collector[T]) Env() domain.ExecutionEnvironment {
	return c.env
}

// Kind returns the resource kind
func (c *Collector[T]) Kind() domain.Kind {
	return c.kind
}

// Steps returns the chain's step names in order
func (c *Collector[T]) Steps() []string {
	names := make([]string, len(c.steps))
	for i, s := range c.steps {
		names[i] = s.Name
	}
	return names
}

// Collect runs the chain. It always returns a non-nil list.
func (c *Collector[T]) Collect(ctx context.Context) Result[T] {
	if len(c.steps) == 0 {
		return Result[T]{Items: []T{}}
	}

	var causes []string
	for _, step := range c.steps {
		items, cmd, cause := c.runStep(ctx, step)
		if len(items) > 0 {
			if c.post != nil {
				items = c.post(ctx, items)
			}
			if c.tag != nil {
				c.tag(items, c.env)
			}
			c.logger.Debug().Str("step", step.Name).Int("records", len(items)).Msg("collected")
			return Result[T]{Items: items, Step: step.Name}
		}

		c.logger.Debug().Str("step", step.Name).Str("cause", cause).Msg("step failed, trying next")
		c.diag.Record(ctx, Failure{
			CycleID:     CycleID(ctx),
			Environment: c.env,
			Kind:        c.kind,
			Step:        step.Name,
			Command:     cmd,
			Cause:       cause,
			At:          time.Now(),
		})
		causes = append(causes, step.Name+": "+cause)
	}

	cause := strings.Join(causes, "; ")
	c.logger.Warn().Str("cause", cause).Msg("all sources failed")
	return Result[T]{Items: []T{}, Cause: cause}
}

// runStep returns the parsed records, or the failing command and its cause
func (c *Collector[T]) runStep(ctx context.Context, step Step[T]) ([]T, string, string) {
	if step.Source != nil {
		items, err := step.Source(ctx)
		if err != nil {
			return nil, step.Name, err.Error()
		}
		if len(items) == 0 {
			return nil, step.Name, "no records"
		}
		return items, "", ""
	}

	outputs := make([]string, len(step.Calls))
	for i, call := range step.Calls {
		cmd := runner.Command{
			Tool:      call.Tool,
			Args:      call.Args,
			Namespace: c.env,
			Timeout:   call.Timeout,
		}
		out := c.runner.Run(ctx, cmd)
		if !out.OK() {
			if call.Optional {
				c.logger.Debug().Str("command", cmd.String()).Str("cause", out.Cause()).Msg("optional call failed")
				continue
			}
			return nil, cmd.String(), out.Cause()
		}
		outputs[i] = out.Stdout
	}

	items := step.Parse(outputs)
	if len(items) == 0 {
		return nil, commandLine(step.Calls), "parse failed: no records"
	}
	return items, "", ""
}

func commandLine(calls []Call) string {
	parts := make([]string, len(calls))
	for i, call := range calls {
		parts[i] = runner.Command{Tool: call.Tool, Args: call.Args}.String()
	}
	return strings.Join(parts, " && ")
}

// single adapts a one-output parser to a step parser
func single[T any](parse func(string) []T) func([]string) []T {
	return func(outputs []string) []T {
		if len(outputs) == 0 {
			return nil
		}
		return parse(outputs[0])
	}
}
