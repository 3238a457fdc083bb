package parser

import (
	"strings"

	"github.com/tidwall/gjson"

	"netscope/internal/domain"
)

// forEachJSONLine calls fn for every JSON object in out. Docker emits one
// object per line; some compatible runtimes emit a single array instead.
func forEachJSONLine(out string, fn func(obj gjson.Result)) {
	trimmed := strings.TrimSpace(out)
	if strings.HasPrefix(trimmed, "[") {
		if !gjson.Valid(trimmed) {
			return
		}
		gjson.Parse(trimmed).ForEach(func(_, value gjson.Result) bool {
			if value.IsObject() {
				fn(value)
			}
			return true
		})
		return
	}

	for _, line := range lines(trimmed) {
		if !gjson.Valid(line) {
			continue
		}
		if obj := gjson.Parse(line); obj.IsObject() {
			fn(obj)
		}
	}
}

// ParseDockerNetworks parses `docker network ls --format json`.
// The listing does not carry subnets; Subnet is left empty.
func ParseDockerNetworks(out string) []domain.ContainerNetwork {
	var networks []domain.ContainerNetwork
	forEachJSONLine(out, func(obj gjson.Result) {
		name := obj.Get("Name").String()
		if name == "" {
			return
		}
		networks = append(networks, domain.ContainerNetwork{
			Name:   name,
			Driver: obj.Get("Driver").String(),
			Scope:  obj.Get("Scope").String(),
		})
	})
	return networks
}

// ParseDockerContainers parses `docker ps --format json`
func ParseDockerContainers(out string) []domain.ContainerInstance {
	var containers []domain.ContainerInstance
	forEachJSONLine(out, func(obj gjson.Result) {
		names := obj.Get("Names")
		name := names.String()
		if names.IsArray() {
			parts := make([]string, 0, len(names.Array()))
			for _, n := range names.Array() {
				parts = append(parts, n.String())
			}
			name = strings.Join(parts, ",")
		}
		id := obj.Get("ID").String()
		if id == "" {
			id = obj.Get("Id").String()
		}
		if name == "" && id == "" {
			return
		}
		containers = append(containers, domain.ContainerInstance{
			Name:   name,
			Image:  obj.Get("Image").String(),
			Status: obj.Get("Status").String(),
			Ports:  obj.Get("Ports").String(),
			ID:     id,
		})
	})
	return containers
}
