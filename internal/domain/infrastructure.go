package domain

// FirewallRule is a rule as reported by the firewall tool.
// Enabled is kept verbatim ("True", "Yes", "1"...), never normalized.
type FirewallRule struct {
	Name          string               `json:"name" yaml:"name"`
	Enabled       string               `json:"enabled" yaml:"enabled"`
	Direction     string               `json:"direction" yaml:"direction"`
	Action        string               `json:"action" yaml:"action"`
	Protocol      string               `json:"protocol" yaml:"protocol"`
	LocalAddress  string               `json:"local_address" yaml:"local_address"`
	RemoteAddress string               `json:"remote_address" yaml:"remote_address"`
	Environment   ExecutionEnvironment `json:"environment" yaml:"environment"`
}

// Route is one routing table entry; every field is free text from the source tool
type Route struct {
	Destination string               `json:"destination" yaml:"destination"`
	Gateway     string               `json:"gateway" yaml:"gateway"`
	Interface   string               `json:"interface" yaml:"interface"`
	Metric      string               `json:"metric" yaml:"metric"`
	Environment ExecutionEnvironment `json:"environment" yaml:"environment"`
}
