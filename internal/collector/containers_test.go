package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netscope/internal/domain"
	"netscope/internal/runner"
)

type fakeEngine struct {
	networks   []network.Summary
	containers []container.Summary
	err        error
	filter     string
}

func (f *fakeEngine) NetworkList(context.Context, network.ListOptions) ([]network.Summary, error) {
	return f.networks, f.err
}

func (f *fakeEngine) ContainerList(_ context.Context, opts container.ListOptions) ([]container.Summary, error) {
	f.filter = opts.Filters.Get("network")[0]
	return f.containers, f.err
}

func TestParseDockerTransport(t *testing.T) {
	assert.Equal(t, DockerAPI, ParseDockerTransport("api"))
	assert.Equal(t, DockerCLI, ParseDockerTransport("cli"))
	assert.Equal(t, DockerCLI, ParseDockerTransport(""))
}

func TestContainerNetworksViaCLI(t *testing.T) {
	fake := runner.NewFake().
		On(cmd(domain.EnvNative, "docker", "network", "ls", "--format", "json"),
			runner.Success(`{"Driver":"bridge","ID":"abc","Name":"bridge","Scope":"local"}`+"\n", ""))

	reg := NewRegistry(fake, nil, Options{}, nil, zerolog.Nop())
	res := reg.ContainerNetworks(context.Background())

	require.Len(t, res.Items, 1)
	assert.Equal(t, domain.ContainerNetwork{Name: "bridge", Driver: "bridge", Scope: "local"}, res.Items[0])
}

func TestContainerNetworksFailureIsEmpty(t *testing.T) {
	reg := NewRegistry(runner.NewFake(), nil, Options{}, nil, zerolog.Nop())
	res := reg.ContainerNetworks(context.Background())

	require.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
	assert.Contains(t, res.Cause, "launch failed")
}

func TestContainersOnNetworkViaAPI(t *testing.T) {
	engine := &fakeEngine{
		containers: []container.Summary{{
			ID:     "0123456789abcdef0123",
			Names:  []string{"/web"},
			Image:  "nginx:1.27",
			Status: "Up 3 hours",
			Ports: []container.Port{
				{IP: "0.0.0.0", PrivatePort: 80, PublicPort: 8080, Type: "tcp"},
				{PrivatePort: 443, Type: "tcp"},
			},
		}},
	}

	reg := NewRegistry(runner.NewFake(), nil, Options{Docker: DockerAPI, Engine: engine}, nil, zerolog.Nop())
	res := reg.ContainersOnNetwork(context.Background(), "frontend")

	require.Len(t, res.Items, 1)
	assert.Equal(t, "frontend", engine.filter)
	assert.Equal(t, domain.ContainerInstance{
		Name:   "web",
		Image:  "nginx:1.27",
		Status: "Up 3 hours",
		Ports:  "0.0.0.0:8080->80/tcp, 443/tcp",
		ID:     "0123456789ab",
	}, res.Items[0])
}

func TestContainerNetworksViaAPI(t *testing.T) {
	s := network.Summary{Name: "backend", Driver: "bridge", Scope: "local"}
	s.IPAM.Config = []network.IPAMConfig{{Subnet: "172.18.0.0/16"}, {Subnet: "fd00::/64"}}
	engine := &fakeEngine{networks: []network.Summary{s}}

	reg := NewRegistry(runner.NewFake(), nil, Options{Docker: DockerAPI, Engine: engine}, nil, zerolog.Nop())
	res := reg.ContainerNetworks(context.Background())

	require.Len(t, res.Items, 1)
	assert.Equal(t, "172.18.0.0/16,fd00::/64", res.Items[0].Subnet)
}

func TestContainersOnNetworkAPIError(t *testing.T) {
	engine := &fakeEngine{err: errors.New("daemon not running")}
	reg := NewRegistry(runner.NewFake(), nil, Options{Docker: DockerAPI, Engine: engine}, nil, zerolog.Nop())

	res := reg.ContainersOnNetwork(context.Background(), "bridge")
	assert.Empty(t, res.Items)
	assert.Contains(t, res.Cause, "daemon not running")
}

func TestContainersOnNetworkEmptyName(t *testing.T) {
	fake := runner.NewFake()
	reg := NewRegistry(fake, nil, Options{}, nil, zerolog.Nop())

	res := reg.ContainersOnNetwork(context.Background(), "")
	assert.Empty(t, res.Items)
	assert.Empty(t, fake.Calls())
}
