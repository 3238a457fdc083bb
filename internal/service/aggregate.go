package service

import (
	"sort"
	"strings"

	"netscope/internal/domain"
)

// EnvResult is one environment's contribution to a unified list
type EnvResult[T any] struct {
	Env   domain.ExecutionEnvironment
	Items []T
	Cause string
}

// Merge concatenates per-environment records, native before bridged.
// Records are never de-duplicated or reordered within an environment.
func Merge[T any](results []EnvResult[T]) []T {
	ordered := make([]EnvResult[T], len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Env.Rank() < ordered[j].Env.Rank()
	})

	out := make([]T, 0)
	for _, r := range ordered {
		out = append(out, r.Items...)
	}
	return out
}

// MergedCause is empty unless every environment failed
func MergedCause[T any](results []EnvResult[T]) string {
	if len(results) == 0 {
		return ""
	}
	causes := make([]string, 0, len(results))
	for _, r := range results {
		if r.Cause == "" {
			return ""
		}
		causes = append(causes, string(r.Env)+": "+r.Cause)
	}
	return strings.Join(causes, "; ")
}
