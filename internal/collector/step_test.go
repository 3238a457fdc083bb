package collector

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netscope/internal/domain"
	"netscope/internal/parser"
	"netscope/internal/runner"
)

type recordingDiagnostics struct {
	mu       sync.Mutex
	failures []Failure
}

func (d *recordingDiagnostics) Record(_ context.Context, f Failure) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures = append(d.failures, f)
}

func (d *recordingDiagnostics) all() []Failure {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Failure(nil), d.failures...)
}

const ssOutput = `Netid State  Recv-Q Send-Q Local Address:Port Peer Address:Port Process
tcp   LISTEN 0      4096   0.0.0.0:22         0.0.0.0:*         users:(("sshd",pid=812,fd=3))
`

const netstatOutput = `Active Internet connections (only servers)
Proto Recv-Q Send-Q Local Address           Foreign Address         State       PID/Program name
tcp        0      0 0.0.0.0:22              0.0.0.0:*               LISTEN      812/sshd
`

func portChain() []Step[domain.PortBinding] {
	return linuxPortSteps(Options{Timeouts: DefaultTimeouts()})
}

func cmd(env domain.ExecutionEnvironment, tool string, args ...string) runner.Command {
	return runner.Command{Tool: tool, Args: args, Namespace: env}
}

func TestCollectFirstStepWins(t *testing.T) {
	fake := runner.NewFake().
		On(cmd(domain.EnvNative, "ss", "-tulnp"), runner.Success(ssOutput, "")).
		On(cmd(domain.EnvNative, "netstat", "-tulnp"), runner.Success(netstatOutput, ""))

	c := NewCollector(domain.EnvNative, domain.KindPorts, portChain(), fake, nil, zerolog.Nop())
	res := c.Collect(context.Background())

	require.Len(t, res.Items, 1)
	assert.Equal(t, "ss -tulnp", res.Step)
	assert.Empty(t, res.Cause)
	assert.Len(t, fake.Calls(), 1, "fallback must not run when the primary yields records")
}

func TestCollectFallbackMatchesSecondaryAlone(t *testing.T) {
	failures := []runner.Outcome{
		runner.LaunchFailed("executable file not found"),
		runner.NonZeroExit(1, "", "permission denied"),
		runner.TimedOut(),
		runner.Success("garbage\n", ""),
		runner.Success("", ""),
	}

	secondaryOnly := runner.NewFake().
		On(cmd(domain.EnvNative, "netstat", "-tulnp"), runner.Success(netstatOutput, ""))
	want := NewCollector(domain.EnvNative, domain.KindPorts, portChain()[1:], secondaryOnly, nil, zerolog.Nop()).
		Collect(context.Background())
	require.NotEmpty(t, want.Items)

	for _, primary := range failures {
		t.Run(primary.Status.String(), func(t *testing.T) {
			fake := runner.NewFake().
				On(cmd(domain.EnvNative, "ss", "-tulnp"), primary).
				On(cmd(domain.EnvNative, "netstat", "-tulnp"), runner.Success(netstatOutput, ""))

			got := NewCollector(domain.EnvNative, domain.KindPorts, portChain(), fake, nil, zerolog.Nop()).
				Collect(context.Background())
			assert.Equal(t, want.Items, got.Items)
			assert.Equal(t, "netstat -tulnp", got.Step)
			assert.Empty(t, got.Cause)
		})
	}
}

func TestCollectAllFailRecordsCause(t *testing.T) {
	diag := &recordingDiagnostics{}
	fake := runner.NewFake().
		On(cmd(domain.EnvBridged, "ss", "-tulnp"), runner.NonZeroExit(2, "", "ss: bad option\nusage"))

	c := NewCollector(domain.EnvBridged, domain.KindPorts, portChain(), fake, diag, zerolog.Nop())
	ctx := WithCycleID(context.Background(), "cycle-1")
	res := c.Collect(ctx)

	require.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
	assert.Contains(t, res.Cause, "ss -tulnp: exit status 2: ss: bad option")
	assert.Contains(t, res.Cause, "netstat -tulnp: launch failed")

	failures := diag.all()
	require.Len(t, failures, 2)
	assert.Equal(t, "cycle-1", failures[0].CycleID)
	assert.Equal(t, domain.EnvBridged, failures[0].Environment)
	assert.Equal(t, domain.KindPorts, failures[0].Kind)
	assert.Equal(t, "ss -tulnp", failures[0].Command)
	assert.Equal(t, "netstat -tulnp", failures[1].Step)
}

func TestCollectParseFailureFallsThrough(t *testing.T) {
	diag := &recordingDiagnostics{}
	fake := runner.NewFake().
		On(cmd(domain.EnvNative, "ss", "-tulnp"), runner.Success("Netid State\n", ""))

	res := NewCollector(domain.EnvNative, domain.KindPorts, portChain()[:1], fake, diag, zerolog.Nop()).
		Collect(context.Background())

	assert.Empty(t, res.Items)
	assert.Equal(t, "ss -tulnp: parse failed: no records", res.Cause)
	require.Len(t, diag.all(), 1)
}

func TestCollectNoSteps(t *testing.T) {
	fake := runner.NewFake()
	res := NewCollector[domain.Route](domain.EnvNative, domain.KindRoutes, nil, fake, nil, zerolog.Nop()).
		Collect(context.Background())

	require.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
	assert.Empty(t, res.Cause)
	assert.Empty(t, fake.Calls())
}

func TestCollectOptionalCall(t *testing.T) {
	addr := "eth0 UP 10.0.0.5/24\n"
	link := "eth0 UP aa:bb:cc:dd:ee:ff <UP>\n"
	steps := linuxInterfaceSteps(Options{})

	t.Run("optional call fails", func(t *testing.T) {
		fake := runner.NewFake().
			On(cmd(domain.EnvNative, "ip", "-br", "addr", "show"), runner.Success(addr, ""))
		res := NewCollector(domain.EnvNative, domain.KindInterfaces, steps, fake, nil, zerolog.Nop()).
			Collect(context.Background())
		require.Len(t, res.Items, 1)
		assert.Empty(t, res.Items[0].MAC)
		assert.Equal(t, []string{"10.0.0.5"}, res.Items[0].IPv4)
	})

	t.Run("optional call succeeds", func(t *testing.T) {
		fake := runner.NewFake().
			On(cmd(domain.EnvNative, "ip", "-br", "addr", "show"), runner.Success(addr, "")).
			On(cmd(domain.EnvNative, "ip", "-br", "link", "show"), runner.Success(link, ""))
		res := NewCollector(domain.EnvNative, domain.KindInterfaces, steps, fake, nil, zerolog.Nop()).
			Collect(context.Background())
		require.Len(t, res.Items, 1)
		assert.Equal(t, "aa:bb:cc:dd:ee:ff", res.Items[0].MAC)
	})

	t.Run("required call fails", func(t *testing.T) {
		fake := runner.NewFake().
			On(cmd(domain.EnvNative, "ip", "-br", "link", "show"), runner.Success(link, ""))
		res := NewCollector(domain.EnvNative, domain.KindInterfaces, steps, fake, nil, zerolog.Nop()).
			Collect(context.Background())
		assert.Empty(t, res.Items)
		assert.Contains(t, res.Cause, "launch failed")
	})
}

func TestCollectSourceStep(t *testing.T) {
	steps := []Step[domain.Route]{
		{Name: "broken", Source: func(context.Context) ([]domain.Route, error) { return nil, errors.New("boom") }},
		{Name: "empty", Source: func(context.Context) ([]domain.Route, error) { return nil, nil }},
		{Name: "ok", Source: func(context.Context) ([]domain.Route, error) {
			return []domain.Route{{Destination: "0.0.0.0/0", Gateway: "10.0.0.1", Interface: "eth0"}}, nil
		}},
	}
	c := NewCollector(domain.EnvNative, domain.KindRoutes, steps, runner.NewFake(), nil, zerolog.Nop())
	c.tag = tagRoutes

	res := c.Collect(context.Background())
	require.Len(t, res.Items, 1)
	assert.Equal(t, "ok", res.Step)
	assert.Equal(t, domain.EnvNative, res.Items[0].Environment)
}

func TestSingleIgnoresMissingOutput(t *testing.T) {
	parse := single(parser.ParseIPRoute)
	assert.Nil(t, parse(nil))
	assert.Len(t, parse([]string{"default via 10.0.0.1 dev eth0\n"}), 1)
}
