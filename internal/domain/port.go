package domain

// NotAvailable is the sentinel for an unknown process id or name
const NotAvailable = "N/A"

// PortBinding is one listening (or connected) socket.
// Port is always numeric; Address is either "ip:port" as reported or a bare address.
type PortBinding struct {
	ProcessID   string               `json:"process_id" yaml:"process_id"`
	ProcessName string               `json:"process_name" yaml:"process_name"`
	Protocol    string               `json:"protocol" yaml:"protocol"`
	Port        string               `json:"port" yaml:"port"`
	State       string               `json:"state" yaml:"state"`
	Address     string               `json:"address" yaml:"address"`
	Environment ExecutionEnvironment `json:"environment" yaml:"environment"`
}

// HasProcessName reports whether the process name was resolved
func (p PortBinding) HasProcessName() bool {
	return p.ProcessName != "" && p.ProcessName != NotAvailable
}

// HasProcessID reports whether the owning pid was resolved
func (p PortBinding) HasProcessID() bool {
	return p.ProcessID != "" && p.ProcessID != NotAvailable
}

// orNA substitutes the sentinel for empty strings
func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

// NewPortBinding validates port and fills sentinels.
// Returns ok=false when port is not numeric; such bindings must be dropped.
func NewPortBinding(pid, name, protocol, port, state, address string, env ExecutionEnvironment) (PortBinding, bool) {
	if !ValidPort(port) {
		return PortBinding{}, false
	}
	return PortBinding{
		ProcessID:   orNA(pid),
		ProcessName: orNA(name),
		Protocol:    protocol,
		Port:        port,
		State:       state,
		Address:     address,
		Environment: env,
	}, true
}
