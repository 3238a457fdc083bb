package domain

// ContainerNetwork is one network known to the container runtime.
// Subnet is empty when the listing does not carry it.
type ContainerNetwork struct {
	Name   string `json:"name" yaml:"name"`
	Driver string `json:"driver" yaml:"driver"`
	Scope  string `json:"scope" yaml:"scope"`
	Subnet string `json:"subnet" yaml:"subnet"`
}

// ContainerInstance is a container attached to a queried network
type ContainerInstance struct {
	Name   string `json:"name" yaml:"name"`
	Image  string `json:"image" yaml:"image"`
	Status string `json:"status" yaml:"status"`
	Ports  string `json:"ports" yaml:"ports"`
	ID     string `json:"id" yaml:"id"`
}
