package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

// ExecRunner launches tools as local processes
type ExecRunner struct {
	logger zerolog.Logger
}

// NewExecRunner creates a runner for the local namespace
func NewExecRunner(logger zerolog.Logger) *ExecRunner {
	return &ExecRunner{
		logger: logger.With().Str("component", "runner").Str("runner", "exec").Logger(),
	}
}

type execResult struct {
	started bool
	err     error
}

// Run starts cmd on a worker goroutine and waits for it or for the timeout.
// On timeout the process is killed and TimedOut is returned.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) Outcome {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, cmd.timeout())
	defer cancel()

	c := exec.Command(cmd.Tool, cmd.Args...)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	c.WaitDelay = time.Second

	started := make(chan struct{})
	done := make(chan execResult, 1)
	go func() {
		if err := c.Start(); err != nil {
			close(started)
			done <- execResult{err: err}
			return
		}
		close(started)
		done <- execResult{started: true, err: c.Wait()}
	}()

	var outcome Outcome
	select {
	case res := <-done:
		outcome = r.outcome(res, &stdout, &stderr)
	case <-ctx.Done():
		<-started
		if c.Process != nil {
			_ = c.Process.Kill()
		}
		outcome = TimedOut()
	}

	r.logger.Debug().
		Str("command", cmd.String()).
		Str("outcome", outcome.Status.String()).
		Dur("elapsed", time.Since(start)).
		Msg("command finished")

	return outcome
}

func (r *ExecRunner) outcome(res execResult, stdout, stderr *bytes.Buffer) Outcome {
	if !res.started {
		return LaunchFailed(res.err.Error())
	}
	out := DecodeOutput(stdout.Bytes())
	errOut := DecodeOutput(stderr.Bytes())
	if res.err == nil {
		return Success(out, errOut)
	}

	var exitErr *exec.ExitError
	if errors.As(res.err, &exitErr) {
		return NonZeroExit(exitErr.ExitCode(), out, errOut)
	}
	return LaunchFailed(res.err.Error())
}
