package collector

import (
	"context"
	"strconv"

	"github.com/shirou/gopsutil/v3/process"
)

// localProcessName resolves a pid in the native namespace without spawning a tool
func localProcessName(ctx context.Context, pid string) string {
	n, err := strconv.ParseInt(pid, 10, 32)
	if err != nil || n <= 0 {
		return ""
	}
	proc, err := process.NewProcessWithContext(ctx, int32(n))
	if err != nil {
		return ""
	}
	name, err := proc.NameWithContext(ctx)
	if err != nil {
		return ""
	}
	return name
}
