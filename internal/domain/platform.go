package domain

// Platform is the tool family available in an environment
type Platform string

const (
	PlatformLinux   Platform = "linux"
	PlatformWindows Platform = "windows"
)

// ParsePlatform parses a platform name, defaulting to linux
func ParsePlatform(s string) Platform {
	if Platform(s) == PlatformWindows {
		return PlatformWindows
	}
	return PlatformLinux
}
