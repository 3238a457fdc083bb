package config

import (
	"os"
	"runtime"
	"strings"

	"netscope/internal/domain"
)

// HostInfo describes the machine netscope runs on
type HostInfo struct {
	GOOS   string
	WSL    bool
	Distro string
	// Privileged is true for root on unix. Without it socket tools hide
	// other users' process names.
	Privileged bool
	Reasons    []string
}

// hostProbe abstracts the host for detection
type hostProbe struct {
	goos     string
	euid     int
	getenv   func(string) string
	readFile func(string) string
}

// wslSignature is one piece of evidence that we run inside WSL
type wslSignature struct {
	EnvVar string
	File   string
	Marker string
}

// wslSignatures are checked in order; any match means WSL
var wslSignatures = []wslSignature{
	{EnvVar: "WSL_DISTRO_NAME"},
	{EnvVar: "WSL_INTEROP"},
	{File: "/proc/sys/kernel/osrelease", Marker: "microsoft"},
	{File: "/proc/version", Marker: "microsoft"},
}

// DetectHost inspects the running host
func DetectHost() HostInfo {
	return detectHost(hostProbe{goos: runtime.GOOS, euid: os.Geteuid(), getenv: os.Getenv, readFile: readFileSafe})
}

func detectHost(p hostProbe) HostInfo {
	info := HostInfo{GOOS: p.goos, Reasons: []string{}}
	// os.Geteuid reports -1 on windows
	info.Privileged = p.euid == 0
	if p.goos != "linux" {
		return info
	}

	for _, sig := range wslSignatures {
		switch {
		case sig.EnvVar != "":
			if v := p.getenv(sig.EnvVar); v != "" {
				info.WSL = true
				info.Reasons = append(info.Reasons, "Env "+sig.EnvVar+" set")
			}
		case sig.File != "":
			if strings.Contains(strings.ToLower(p.readFile(sig.File)), sig.Marker) {
				info.WSL = true
				info.Reasons = append(info.Reasons, "Marker "+sig.Marker+" in "+sig.File)
			}
		}
	}
	if info.WSL {
		info.Distro = p.getenv("WSL_DISTRO_NAME")
	}
	return info
}

// Profile is the resolved environment layout
type Profile struct {
	Native  domain.Platform
	Bridged domain.Platform // empty when there is no bridged environment
	Bridge  string          // none, wsl, interop or ssh
	Distro  string
}

// HasBridged reports whether a bridged environment is configured
func (p Profile) HasBridged() bool {
	return p.Bridge != None && p.Bridged != ""
}

// ResolveProfile binds native and bridged environments to tool families.
// Explicit settings win over detection:
//   - on Windows: native windows, bridged linux through wsl
//   - on Linux inside WSL: native linux, bridged windows through interop
//   - elsewhere: native linux, bridged only when an ssh host is set
func (c *Config) ResolveProfile(host HostInfo) Profile {
	p := Profile{Distro: c.Platform.WSLDistro}
	if p.Distro == "" {
		p.Distro = host.Distro
	}

	switch c.Platform.Native {
	case Auto, "":
		if host.GOOS == "windows" {
			p.Native = domain.PlatformWindows
		} else {
			p.Native = domain.PlatformLinux
		}
	default:
		p.Native = domain.ParsePlatform(c.Platform.Native)
	}

	p.Bridge = c.Platform.Bridge
	if p.Bridge == Auto || p.Bridge == "" {
		switch {
		case p.Native == domain.PlatformWindows:
			p.Bridge = "wsl"
		case host.WSL:
			p.Bridge = "interop"
		case c.SSH.Host != "":
			p.Bridge = "ssh"
		default:
			p.Bridge = None
		}
	}

	switch c.Platform.Bridged {
	case None:
		p.Bridge = None
	case Auto, "":
		switch p.Bridge {
		case "wsl", "ssh":
			p.Bridged = domain.PlatformLinux
		case "interop":
			p.Bridged = domain.PlatformWindows
		}
	default:
		p.Bridged = domain.ParsePlatform(c.Platform.Bridged)
	}
	if p.Bridge == None {
		p.Bridged = ""
	}
	return p
}

// readFileSafe reads a file, returning empty string on error
func readFileSafe(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}
