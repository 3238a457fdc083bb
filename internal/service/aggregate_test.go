package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"netscope/internal/domain"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name    string
		results []EnvResult[string]
		want    []string
	}{
		{
			name: "native before bridged",
			results: []EnvResult[string]{
				{Env: domain.EnvNative, Items: []string{"a", "b"}},
				{Env: domain.EnvBridged, Items: []string{"c"}},
			},
			want: []string{"a", "b", "c"},
		},
		{
			name: "input order does not matter",
			results: []EnvResult[string]{
				{Env: domain.EnvBridged, Items: []string{"c", "d"}},
				{Env: domain.EnvNative, Items: []string{"a"}},
			},
			want: []string{"a", "c", "d"},
		},
		{
			name: "duplicates are kept",
			results: []EnvResult[string]{
				{Env: domain.EnvNative, Items: []string{"x"}},
				{Env: domain.EnvBridged, Items: []string{"x"}},
			},
			want: []string{"x", "x"},
		},
		{
			name: "all empty",
			results: []EnvResult[string]{
				{Env: domain.EnvNative},
				{Env: domain.EnvBridged},
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Merge(tt.results))
		})
	}
}

func TestMergedCause(t *testing.T) {
	assert.Empty(t, MergedCause[string](nil))
	assert.Empty(t, MergedCause([]EnvResult[string]{
		{Env: domain.EnvNative, Cause: "ss: timed out"},
		{Env: domain.EnvBridged},
	}))
	assert.Equal(t, "native: a; bridged: b", MergedCause([]EnvResult[string]{
		{Env: domain.EnvNative, Cause: "a"},
		{Env: domain.EnvBridged, Cause: "b"},
	}))
}
