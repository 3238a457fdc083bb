package collector

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"

	"netscope/internal/domain"
	"netscope/internal/parser"
)

// DockerTransport selects how the container runtime is queried
type DockerTransport string

const (
	DockerCLI DockerTransport = "cli"
	DockerAPI DockerTransport = "api"
)

// ParseDockerTransport parses a transport name, defaulting to cli
func ParseDockerTransport(s string) DockerTransport {
	if DockerTransport(s) == DockerAPI {
		return DockerAPI
	}
	return DockerCLI
}

// EngineAPI is the subset of the Docker Engine client used here
type EngineAPI interface {
	NetworkList(ctx context.Context, options network.ListOptions) ([]network.Summary, error)
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
}

// NewEngineClient connects to the Docker Engine API. An empty host uses the
// environment (DOCKER_HOST) or the platform default socket.
func NewEngineClient(host string) (*client.Client, error) {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if host != "" {
		opts = append(opts, client.WithHost(host))
	}
	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}
	return cli, nil
}

// "json" is the docker CLI shorthand for one JSON object per line
const dockerJSONFormat = "json"

// cliNetworkSteps lists networks with the docker CLI. There is no fallback.
func cliNetworkSteps(opts Options) []Step[domain.ContainerNetwork] {
	return []Step[domain.ContainerNetwork]{
		{
			Name:  "docker network ls",
			Calls: []Call{{Tool: "docker", Args: []string{"network", "ls", "--format", dockerJSONFormat}, Timeout: opts.Timeouts.Docker}},
			Parse: single(parser.ParseDockerNetworks),
		},
	}
}

func cliContainerSteps(name string, opts Options) []Step[domain.ContainerInstance] {
	return []Step[domain.ContainerInstance]{
		{
			Name:  "docker ps",
			Calls: []Call{{Tool: "docker", Args: []string{"ps", "--filter", "network=" + name, "--format", dockerJSONFormat}, Timeout: opts.Timeouts.Docker}},
			Parse: single(parser.ParseDockerContainers),
		},
	}
}

// apiNetworkSteps lists networks through the Engine API, which also reports subnets
func apiNetworkSteps(api EngineAPI, opts Options) []Step[domain.ContainerNetwork] {
	return []Step[domain.ContainerNetwork]{
		{
			Name: "engine NetworkList",
			Source: func(ctx context.Context) ([]domain.ContainerNetwork, error) {
				ctx, cancel := context.WithTimeout(ctx, orDefault(opts.Timeouts.Docker))
				defer cancel()

				summaries, err := api.NetworkList(ctx, network.ListOptions{})
				if err != nil {
					return nil, fmt.Errorf("network list: %w", err)
				}
				out := make([]domain.ContainerNetwork, 0, len(summaries))
				for _, s := range summaries {
					out = append(out, networkFromSummary(s))
				}
				return out, nil
			},
		},
	}
}

func apiContainerSteps(api EngineAPI, name string, opts Options) []Step[domain.ContainerInstance] {
	return []Step[domain.ContainerInstance]{
		{
			Name: "engine ContainerList",
			Source: func(ctx context.Context) ([]domain.ContainerInstance, error) {
				ctx, cancel := context.WithTimeout(ctx, orDefault(opts.Timeouts.Docker))
				defer cancel()

				summaries, err := api.ContainerList(ctx, container.ListOptions{
					Filters: filters.NewArgs(filters.Arg("network", name)),
				})
				if err != nil {
					return nil, fmt.Errorf("container list: %w", err)
				}
				out := make([]domain.ContainerInstance, 0, len(summaries))
				for _, s := range summaries {
					out = append(out, containerFromSummary(s))
				}
				return out, nil
			},
		},
	}
}

func networkFromSummary(s network.Summary) domain.ContainerNetwork {
	n := domain.ContainerNetwork{
		Name:   s.Name,
		Driver: s.Driver,
		Scope:  s.Scope,
	}
	subnets := make([]string, 0, len(s.IPAM.Config))
	for _, cfg := range s.IPAM.Config {
		if cfg.Subnet != "" {
			subnets = append(subnets, cfg.Subnet)
		}
	}
	n.Subnet = strings.Join(subnets, ",")
	return n
}

func containerFromSummary(s container.Summary) domain.ContainerInstance {
	names := make([]string, 0, len(s.Names))
	for _, n := range s.Names {
		names = append(names, strings.TrimPrefix(n, "/"))
	}
	return domain.ContainerInstance{
		Name:   strings.Join(names, ","),
		Image:  s.Image,
		Status: s.Status,
		Ports:  formatPorts(s.Ports),
		ID:     shortID(s.ID),
	}
}

// formatPorts renders ports the way `docker ps` does: 0.0.0.0:8080->80/tcp
func formatPorts(ports []container.Port) string {
	parts := make([]string, 0, len(ports))
	for _, p := range ports {
		private := strconv.Itoa(int(p.PrivatePort)) + "/" + p.Type
		if p.PublicPort == 0 {
			parts = append(parts, private)
			continue
		}
		parts = append(parts, domain.JoinHostPort(p.IP, strconv.Itoa(int(p.PublicPort)))+"->"+private)
	}
	return strings.Join(parts, ", ")
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func orDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return 10 * time.Second
	}
	return d
}
